package media

import (
	"fmt"
	"strings"

	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
)

var ErrInvalidLink = fmt.Errorf("invalid YouTube link: %w", apperrors.ErrInvalidArgument)

// VideoID extracts the id from a watch?v= or youtu.be/ link.
func VideoID(link string) (string, error) {
	link = strings.TrimSpace(link)
	var id string
	switch {
	case strings.Contains(link, "watch"):
		_, after, ok := strings.Cut(link, "v=")
		if !ok {
			return "", ErrInvalidLink
		}
		id, _, _ = strings.Cut(after, "&")
	case strings.Contains(link, "youtu.be/"):
		_, after, _ := strings.Cut(link, "youtu.be/")
		id, _, _ = strings.Cut(after, "?")
		id, _, _ = strings.Cut(id, "/")
	default:
		return "", ErrInvalidLink
	}
	id, _, _ = strings.Cut(id, "#")
	if id == "" {
		return "", ErrInvalidLink
	}
	return id, nil
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
