package assessment

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuestions(t *testing.T) {
	Convey("Given the question bank", t, func() {
		qs := Questions()

		Convey("Then it has three questions with five options each", func() {
			So(len(qs), ShouldEqual, 3)
			for _, q := range qs {
				So(q.Question, ShouldNotBeBlank)
				So(len(q.Options), ShouldEqual, 5)
			}
			So(qs[0].Question, ShouldEqual, "What kind of work do you enjoy the most?")
		})

		Convey("Then callers cannot modify the bank", func() {
			qs[0].Options[0] = "tampered"
			So(Questions()[0].Options[0], ShouldEqual, "Analyzing data and finding patterns")
		})

		Convey("Then every first-question option is a known answer", func() {
			for _, opt := range qs[0].Options {
				So(Known(opt), ShouldBeTrue)
			}
		})
	})
}

func TestMapAnswers(t *testing.T) {
	Convey("Given assessment answers", t, func() {
		Convey("When the answer is about data analysis", func() {
			skills, interests := MapAnswers([]string{"Analyzing data and finding patterns"})

			Convey("Then it maps to Data Science and AI", func() {
				So(skills, ShouldResemble, []string{"Data Science"})
				So(interests, ShouldResemble, []string{"AI"})
			})
		})

		Convey("When an answer is not recognized", func() {
			skills, interests := MapAnswers([]string{"Juggling"})

			Convey("Then it contributes nothing and does not fail", func() {
				So(skills, ShouldBeEmpty)
				So(interests, ShouldBeEmpty)
				So(Known("Juggling"), ShouldBeFalse)
			})
		})

		Convey("When recognized, unknown and repeated answers are mixed", func() {
			skills, interests := MapAnswers([]string{
				"Solving cybersecurity challenges",
				"analyzing data and finding patterns",
				"Building and coding software applications",
				"Solving cybersecurity challenges",
			})

			Convey("Then order is first-seen and duplicates are kept", func() {
				So(skills, ShouldResemble, []string{"Cybersecurity", "Software Development", "Cybersecurity"})
				So(interests, ShouldResemble, []string{"IT Security", "AI", "IT Security"})
			})
		})

		Convey("When there are no answers", func() {
			skills, interests := MapAnswers(nil)
			So(skills, ShouldBeEmpty)
			So(interests, ShouldBeEmpty)
		})
	})
}
