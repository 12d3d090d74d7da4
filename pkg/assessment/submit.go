package assessment

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// IdeaFromRecord reads the idea fields of a submitted record.
func IdeaFromRecord(sub wizard.Submission) Idea {
	text := func(name string) string {
		v, _ := sub.Record.Get(name)
		return v.String()
	}
	return Idea{
		Title:       text("title"),
		Description: text("description"),
		Impact:      text("impact"),
	}
}

// SubmitIdea turns provider into the submitter of the idea wizard. onResult
// receives every successful assessment; a provider error fails the
// submission so the draft is kept.
func SubmitIdea(provider Provider, onResult func(Idea, Result)) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, sub wizard.Submission) error {
		idea := IdeaFromRecord(sub)
		result, err := provider.Assess(ctx, idea)
		if err != nil {
			return err
		}
		if onResult != nil {
			onResult(idea, result)
		}
		return nil
	})
}
