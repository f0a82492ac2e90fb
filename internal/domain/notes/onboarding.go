package notes

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// MaxOnboardingSections bounds the few-shot corpus.
const MaxOnboardingSections = 3

// OnboardingSection is a user-authored worked example used as a few-shot prompt.
type OnboardingSection struct {
	ID         string         `gorm:"primaryKey;column:id" json:"id"`
	Note       string         `gorm:"column:note" json:"note"`
	Keypoints  datatypes.JSON `gorm:"column:keypoints" json:"keypoints"`
	Transcript string         `gorm:"column:transcript" json:"transcript"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (OnboardingSection) TableName() string { return "onboarding_section" }

func (o *OnboardingSection) KeypointList() ([]string, error) {
	var out []string
	return out, decodeJSON(o.Keypoints, &out)
}

func (o *OnboardingSection) SetKeypoints(kps []string) error {
	return encodeJSON(&o.Keypoints, nonNilSlice(kps))
}

// Example is the prompt-facing view of an onboarding section.
type Example struct {
	Note       string
	Keypoints  []string
	Transcript string
}

// Complete reports whether the example can be shown to the model.
func (e Example) Complete() bool {
	if strings.TrimSpace(e.Note) == "" || len(e.Keypoints) == 0 {
		return false
	}
	for _, k := range e.Keypoints {
		if strings.TrimSpace(k) == "" {
			return false
		}
	}
	return true
}

func (o *OnboardingSection) Example() (Example, error) {
	kps, err := o.KeypointList()
	if err != nil {
		return Example{}, err
	}
	return Example{Note: o.Note, Keypoints: kps, Transcript: o.Transcript}, nil
}
