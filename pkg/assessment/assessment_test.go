package assessment_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/assessment"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

var sampleIdea = assessment.Idea{
	Title:       "Solar kiosks",
	Description: "Pay-as-you-go charging kiosks for rural markets.",
	Impact:      "Cheaper energy for small vendors.",
}

func TestRandomProvider_IsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()
	a := assessment.NewRandomProvider(42)
	b := assessment.NewRandomProvider(42)

	for i := 0; i < 5; i++ {
		ra, err := a.Assess(ctx, sampleIdea)
		if err != nil {
			t.Fatalf("assess: %v", err)
		}
		rb, err := b.Assess(ctx, sampleIdea)
		if err != nil {
			t.Fatalf("assess: %v", err)
		}
		if diff := cmp.Diff(ra, rb); diff != "" {
			t.Fatalf("same seed diverged (-a +b):\n%s", diff)
		}
	}
}

func TestRandomProvider_ScoresInRange(t *testing.T) {
	ctx := context.Background()
	provider := assessment.NewRandomProvider(7)
	existing := 0
	const runs = 2000
	for i := 0; i < runs; i++ {
		r, err := provider.Assess(ctx, sampleIdea)
		if err != nil {
			t.Fatalf("assess: %v", err)
		}
		for _, score := range []float64{r.Novelty, r.MarketRelevance, r.Feasibility} {
			if score < 0 || score > 100 {
				t.Fatalf("score out of range: %v", score)
			}
		}
		if r.IsExisting {
			existing++
		}
	}
	share := float64(existing) / runs
	if share < 0.2 || share > 0.4 {
		t.Fatalf("existing share %.2f far from %.2f", share, assessment.ExistingChance)
	}
}

func TestProvider_RejectsEmptyTitle(t *testing.T) {
	_, err := assessment.StaticProvider{}.Assess(context.Background(), assessment.Idea{Title: "  "})
	if !errors.Is(err, assessment.ErrEmptyIdea) {
		t.Fatalf("expected ErrEmptyIdea, got %v", err)
	}
}

func TestDescriber(t *testing.T) {
	ctx := context.Background()
	d := assessment.DefaultDescriber()

	for _, section := range assessment.Sections() {
		text, err := d.Describe(ctx, section)
		if err != nil {
			t.Fatalf("describe %s: %v", section, err)
		}
		if text == "" || strings.Contains(text, "\n") {
			t.Fatalf("unexpected text for %s: %q", section, text)
		}
	}
	overview, _ := d.Describe(ctx, assessment.SectionOverview)
	if !strings.HasPrefix(overview, "Your innovative project aims to revolutionize urban transportation") {
		t.Fatalf("unexpected overview %q", overview)
	}

	if _, err := d.Describe(ctx, "budget"); !errors.Is(err, assessment.ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if _, err := assessment.ParseSection("Problem"); err != nil {
		t.Fatalf("parse section: %v", err)
	}
}

func TestNewDescriber_CustomTexts(t *testing.T) {
	d, err := assessment.NewDescriber([]byte("Overview: short text\n"))
	if err != nil {
		t.Fatalf("new describer: %v", err)
	}
	text, err := d.Describe(context.Background(), assessment.SectionOverview)
	if err != nil || text != "short text" {
		t.Fatalf("unexpected result %q %v", text, err)
	}
}

func TestChatReply(t *testing.T) {
	ctx := context.Background()
	var chat assessment.Chat

	if _, err := chat.Reply(ctx, "   "); !errors.Is(err, assessment.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	answer, err := chat.Reply(ctx, "Is this novel?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	want := []assessment.Message{
		{Role: assessment.RoleUser, Content: "Is this novel?"},
		{Role: assessment.RoleAssistant, Content: `Thank you for your message: "Is this novel?". How can I assist you further with your idea?`},
	}
	if diff := cmp.Diff(want, chat.History()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	if answer != want[1] {
		t.Fatalf("unexpected answer %#v", answer)
	}
}

func TestSubmitIdea(t *testing.T) {
	fixed := assessment.Result{Novelty: 80, MarketRelevance: 60, Feasibility: 40, IsExisting: true}
	var gotIdea assessment.Idea
	var gotResult assessment.Result
	submitter := assessment.SubmitIdea(assessment.StaticProvider{Result: fixed}, func(idea assessment.Idea, r assessment.Result) {
		gotIdea, gotResult = idea, r
	})

	err := submitter.Submit(context.Background(), wizard.Submission{
		WizardID: "idea-submission",
		Record: model.Record{
			"title":       model.Text(sampleIdea.Title),
			"description": model.Text(sampleIdea.Description),
			"impact":      model.Text(sampleIdea.Impact),
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(sampleIdea, gotIdea); diff != "" {
		t.Fatalf("idea mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fixed, gotResult); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	if err := submitter.Submit(context.Background(), wizard.Submission{Record: model.Record{}}); !errors.Is(err, assessment.ErrEmptyIdea) {
		t.Fatalf("expected provider error to fail submission, got %v", err)
	}
}
