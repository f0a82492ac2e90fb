package prompts

type PromptName string

const (
	PromptExpansionSystem PromptName = "expansion_system"
	PromptExpansion       PromptName = "expansion"
	PromptTheme           PromptName = "theme"
	PromptQuiz            PromptName = "quiz"
	PromptPointSummary    PromptName = "point_summary"
)

var allPromptNames = []PromptName{
	PromptExpansionSystem,
	PromptExpansion,
	PromptTheme,
	PromptQuiz,
	PromptPointSummary,
}
