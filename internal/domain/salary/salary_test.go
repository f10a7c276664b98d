package salary

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLPA(t *testing.T) {
	Convey("Given expected-salary strings", t, func() {
		cases := []struct {
			in    string
			want  float64
			valid bool
		}{
			{"6-15 LPA", 10.5, true},
			{"30+ LPA", 30, true},
			{"12 LPA", 12, true},
			{"8-20", 14, true},
			{"", 0, false},
			{"   ", 0, false},
			{"6 - 15 LPA", 0, false},
			{"1-2-3 LPA", 0, false},
			{"competitive", 0, false},
			{"₹6-15 LPA", 15, true},
			{"99999999999999999999 LPA", 0, false},
		}

		for _, c := range cases {
			Convey("When parsing "+c.in, func() {
				got, ok := ParseLPA(c.in)
				So(ok, ShouldEqual, c.valid)
				So(got, ShouldEqual, c.want)
			})
		}
	})
}
