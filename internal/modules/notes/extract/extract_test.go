package extract

import (
	"fmt"
	"strings"
	"testing"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

func TestThemesRoundTrip(t *testing.T) {
	markup := `Here you go:
<Topic name="Cell energy"><p>ATP is made in mitochondria</p>
<p>Glycolysis happens in cytosol</p></Topic>
<Topic name="Genetics"><p>DNA is double stranded</p><p>RNA is single stranded</p></Topic>`

	topics := Themes(markup)
	if len(topics) != 2 {
		t.Fatalf("topics=%d want 2: %+v", len(topics), topics)
	}
	if topics[0].Label != "Cell energy" || topics[1].Label != "Genetics" {
		t.Fatalf("labels out of order: %+v", topics)
	}
	items := Flatten(topics)
	if len(items) != 6 {
		t.Fatalf("flattened=%d want 6", len(items))
	}
	wantKinds := []types.ThemeKind{types.ThemeTopic, types.ThemePoint, types.ThemePoint, types.ThemeTopic, types.ThemePoint, types.ThemePoint}
	for i, it := range items {
		if it.Kind != wantKinds[i] {
			t.Fatalf("item %d kind=%s want %s", i, it.Kind, wantKinds[i])
		}
		if it.Editable {
			t.Fatalf("item %d should not start editable", i)
		}
	}
	if items[2].Text != "Glycolysis happens in cytosol" {
		t.Fatalf("items[2]=%q", items[2].Text)
	}
}

func TestThemesRepeatedLabelOverwritesInPlace(t *testing.T) {
	markup := `<Topic name="A"><p>1</p></Topic><Topic name="B"><p>2</p></Topic><Topic name="A"><p>3</p><p>4</p></Topic>`
	topics := Themes(markup)
	if len(topics) != 2 || topics[0].Label != "A" || topics[1].Label != "B" {
		t.Fatalf("topics=%+v", topics)
	}
	if strings.Join(topics[0].Points, ",") != "3,4" {
		t.Fatalf("A points=%v", topics[0].Points)
	}
}

func TestThemesMiss(t *testing.T) {
	if got := Themes("no markup at all"); len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
	if got := Flatten(nil); len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestQuizzesExtractsEveryBlock(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "<Question>Q%d?</Question>\n<Choice>a</Choice>\n<Choice>b</Choice>\n<Choice>c</Choice>\n<Choice>d</Choice>\n<Answer>b</Answer>\n\n", i)
	}
	qs := Quizzes(b.String())
	if len(qs) != 5 {
		t.Fatalf("quizzes=%d want 5", len(qs))
	}
	if qs[4].Question != "Q5?" || qs[4].Options != [4]string{"a", "b", "c", "d"} || qs[4].CorrectOption != "b" {
		t.Fatalf("last quiz=%+v", qs[4])
	}
}

func TestQuizzesSkipsMalformedBlocks(t *testing.T) {
	markup := "<Question>multi\nline?</Question><Choice>a</Choice><Choice>b</Choice><Choice>c</Choice><Choice>d</Choice><Answer>d</Answer>" +
		"<Question>only three?</Question><Choice>a</Choice><Choice>b</Choice><Choice>c</Choice><Answer>a</Answer>"
	qs := Quizzes(markup)
	if len(qs) != 1 {
		t.Fatalf("quizzes=%d want 1: %+v", len(qs), qs)
	}
	if qs[0].Question != "multi\nline?" || qs[0].CorrectOption != "d" {
		t.Fatalf("quiz=%+v", qs[0])
	}
}
