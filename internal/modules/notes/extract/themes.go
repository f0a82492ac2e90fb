// Package extract parses the tagged markup the model returns for themes and quizzes.
// A response that does not match yields an empty result rather than an error.
package extract

import (
	"regexp"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

var (
	topicRe = regexp.MustCompile(`<Topic name="([^"]+)">([\s\S]*?)</Topic>`)
	pointRe = regexp.MustCompile(`<p>(.*?)</p>`)
)

// Themes returns topics in discovery order. A repeated label replaces the earlier
// topic's points and keeps its position.
func Themes(markup string) []types.Topic {
	out := []types.Topic{}
	pos := map[string]int{}
	for _, m := range topicRe.FindAllStringSubmatch(markup, -1) {
		label, body := m[1], m[2]
		points := []string{}
		for _, p := range pointRe.FindAllStringSubmatch(body, -1) {
			points = append(points, p[1])
		}
		if i, ok := pos[label]; ok {
			out[i].Points = points
			continue
		}
		pos[label] = len(out)
		out = append(out, types.Topic{Label: label, Points: points})
	}
	return out
}

// Flatten renders topics as a display list: each topic header followed by its points.
func Flatten(topics []types.Topic) []types.ThemeItem {
	out := []types.ThemeItem{}
	for _, t := range topics {
		out = append(out, types.ThemeItem{Kind: types.ThemeTopic, Text: t.Label})
		for _, p := range t.Points {
			out = append(out, types.ThemeItem{Kind: types.ThemePoint, Text: p})
		}
	}
	return out
}
