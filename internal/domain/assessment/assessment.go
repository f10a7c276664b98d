// Package assessment holds the career quiz and maps its answers to the skill
// and interest vocabulary used by the recommender.
package assessment

// Question is one multiple-choice question of the assessment.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Tags is the skill/interest pair contributed by a recognized answer.
type Tags struct {
	Skill    string
	Interest string
}

var questions = []Question{
	{
		Question: "What kind of work do you enjoy the most?",
		Options: []string{
			"Analyzing data and finding patterns",
			"Building and coding software applications",
			"Solving cybersecurity challenges",
			"Creating designs and improving user experience",
			"Managing business operations and growth strategies",
		},
	},
	{
		Question: "What best describes your problem-solving approach?",
		Options: []string{
			"Using logic and structured methods",
			"Experimenting with new technologies",
			"Investigating and securing systems",
			"Creating new ideas and user-friendly solutions",
			"Optimizing business strategies",
		},
	},
	{
		Question: "Which tools or technologies excite you the most?",
		Options: []string{
			"Python, SQL, Machine Learning",
			"Java, C++, Web Development",
			"Penetration Testing, Network Security",
			"Figma, Adobe XD, UI/UX tools",
			"Business Intelligence, Marketing Tools",
		},
	},
}

// answerTags maps answer text to its tags. Only the first question's options
// are mapped; answers to the other questions contribute nothing.
// TODO: decide with product whether the second and third questions should
// feed tags or be dropped from the bank.
var answerTags = map[string]Tags{
	"Analyzing data and finding patterns":                {Skill: "Data Science", Interest: "AI"},
	"Building and coding software applications":          {Skill: "Software Development", Interest: "AI"},
	"Solving cybersecurity challenges":                   {Skill: "Cybersecurity", Interest: "IT Security"},
	"Creating designs and improving user experience":     {Skill: "UI/UX", Interest: "Marketing"},
	"Managing business operations and growth strategies": {Skill: "Business Analysis", Interest: "Finance"},
}

// Questions returns the question bank in display order. The result is a deep
// copy and may be modified by the caller.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = Question{
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		}
	}
	return out
}

// Known reports whether answer contributes tags.
func Known(answer string) bool {
	_, ok := answerTags[answer]
	return ok
}

// MapAnswers converts answers into skills and interests, preserving first-seen
// order and keeping duplicates. Answers are matched exactly; unrecognized
// answers are skipped without error.
func MapAnswers(answers []string) (skills, interests []string) {
	skills = make([]string, 0, len(answers))
	interests = make([]string, 0, len(answers))
	for _, a := range answers {
		tags, ok := answerTags[a]
		if !ok {
			continue
		}
		skills = append(skills, tags.Skill)
		interests = append(interests, tags.Interest)
	}
	return skills, interests
}
