package extract

import (
	"regexp"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

var quizRe = regexp.MustCompile(`(?s)<Question>(.*?)</Question>\s*` +
	`<Choice>(.*?)</Choice>\s*<Choice>(.*?)</Choice>\s*<Choice>(.*?)</Choice>\s*<Choice>(.*?)</Choice>\s*` +
	`<Answer>(.*?)</Answer>`)

// Quizzes returns one item per well-formed question block, in order.
func Quizzes(markup string) []types.QuizItem {
	out := []types.QuizItem{}
	for _, m := range quizRe.FindAllStringSubmatch(markup, -1) {
		out = append(out, types.QuizItem{
			Question:      m[1],
			Options:       [4]string{m[2], m[3], m[4], m[5]},
			CorrectOption: m[6],
		})
	}
	return out
}
