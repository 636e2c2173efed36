package wizard

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tradecheck/internal/validate"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// ErrNotAStep is returned by Advance for a page of the flow that collects
// no answer.
var ErrNotAStep = errors.New("page collects no answer")

// Transition is the outcome of submitting a page: the Answer Set to carry,
// where to send the trader, and the validation error if any.
type Transition struct {
	Answers  types.Answers
	Location string
	Error    types.ErrorCode
}

// Fail sends the trader back to path with code. Submitted values stay in
// the set so the page can show them again.
func Fail(path string, a types.Answers, code types.ErrorCode) Transition {
	a = a.Carried()
	return Transition{
		Answers:  a,
		Location: a.With(types.FieldError, code.String()).URL(path),
		Error:    code,
	}
}

func moveTo(path string, a types.Answers) Transition {
	return Transition{Answers: a, Location: a.URL(path)}
}

// Advance applies the submission input of the page at path to current.
// Only the fields the page owns are taken from input.
func Advance(path string, current, input types.Answers, env Env) (Transition, error) {
	base := current.Carried()

	tradeType := current.TradeType()
	if path == PathTypeOfTrade {
		next := base.Merge(input.Pick(types.FieldTradeType))
		if code := tradeTypeStep.Check(next, env); !code.OK() {
			return Fail(path, next, code), nil
		}
		tradeType = next.TradeType()
	}
	flow, ok := FlowFor(tradeType)
	if !ok {
		return moveTo(PathTypeOfTrade, base.Without(types.FieldIsEdit, types.FieldOriginal)), nil
	}
	step, ok := flow.Step(path)
	if !ok {
		if !flow.Owns(path) {
			return moveTo(PathTypeOfTrade, base.Without(types.FieldIsEdit, types.FieldOriginal)), nil
		}
		return Transition{}, fmt.Errorf("%w: %s", ErrNotAStep, path)
	}

	next := base.Merge(input.Pick(step.Fields...))
	if code := step.Check(next, env); !code.OK() {
		return Fail(path, next, code), nil
	}
	return flow.after(step, next, env), nil
}

// after decides where a valid submission of step goes.
func (f *Flow) after(step Step, next types.Answers, env Env) Transition {
	edit := next.IsEdit()
	original := next.Get(types.FieldOriginal)
	next = next.Without(types.FieldIsEdit, types.FieldOriginal)

	if step.ownsCountry() {
		if loc, hit := f.pairRule(next, env); hit {
			return moveTo(loc, next)
		}
	}
	if edit && Changed(step, original, next) {
		return moveTo(f.CheckAnswers, next)
	}
	return moveTo(f.Next(step.Path), next)
}

// AnswerQuestion records the answer to additional question id and returns
// to the questions page, which moves on once every question is answered.
func AnswerQuestion(f *Flow, current types.Answers, id, answer string) Transition {
	base := current.Carried()
	if code := validate.OneOf(answer, QuestionAnswers...); !code.OK() {
		return Fail(f.AdditionalQuestions, base, code)
	}
	next := base.With(QuestionField(id), answer)
	edit := next.IsEdit()
	original := next.Get(types.FieldOriginal)
	next = next.Without(types.FieldIsEdit, types.FieldOriginal)
	if edit && original != answer {
		return moveTo(f.CheckAnswers, next)
	}
	return moveTo(f.AdditionalQuestions, next)
}

// QuestionField is the Answer Set field holding the answer to question id.
func QuestionField(id string) string {
	return types.QuestionFieldPrefix + id
}

func (s Step) ownsCountry() bool {
	for _, f := range s.Fields {
		if f == types.FieldOriginCountry || f == types.FieldDestinationCountry {
			return true
		}
	}
	return false
}
