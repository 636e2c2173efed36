// Package present turns upstream tariff data and the Answer Set into the
// view models the pages render: the additional-question chain, search
// rows, the duty summary, measure rows and the check-your-answers rows.
package present

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/internal/wizard"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Question identifiers.
const (
	QuestionCITES       = "CITES"
	QuestionOrganics    = "ORGANICS"
	QuestionIAS         = "IAS"
	QuestionPhyto       = "PHYTO"
	QuestionPhytoExempt = "PHYTO_EXEMPT"
)

// certificateQuestions maps certificate codes to the question they raise.
var certificateQuestions = map[string]string{
	"Y900": QuestionCITES,
	"C400": QuestionCITES,
	"Y501": QuestionCITES,
	"Y929": QuestionOrganics,
	"C644": QuestionOrganics,
	"Y067": QuestionIAS,
	"Y251": QuestionPhyto,
	"Y252": QuestionPhyto,
	"Y253": QuestionPhytoExempt,
	"Y256": QuestionPhytoExempt,
}

// Certificate is the result of looking up a certificate code. Unknown
// codes keep their code so the caller can report them.
type Certificate struct {
	Code     string
	Question string
	Known    bool
}

// LookupCertificate returns the question a certificate code raises.
func LookupCertificate(code string) Certificate {
	q, ok := certificateQuestions[code]
	return Certificate{Code: code, Question: q, Known: ok}
}

// KnownQuestion reports whether some certificate raises question id.
func KnownQuestion(id string) bool {
	for _, q := range certificateQuestions {
		if q == id {
			return true
		}
	}
	return false
}

// Question is one additional question to put to the trader.
type Question struct {
	ID    string
	Field string
	// Answer is the recorded answer, "" when unanswered.
	Answer string
}

// Answered reports whether the trader has answered the question.
func (q Question) Answered() bool {
	return q.Answer != ""
}

// Questions walks the measure tree in order and returns the distinct
// questions it raises. Measures gated on an answer apply only when that
// answer was given. Unknown certificate codes are dropped and logged.
func Questions(ms *tariff.Measures, a types.Answers, logger *zap.Logger) []Question {
	if ms == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var out []Question
	seen := map[string]bool{}
	walkMeasures(ms.Measures, a, func(m tariff.Measure) {
		for _, code := range m.Certificates {
			c := LookupCertificate(code)
			if !c.Known {
				logger.Warn("unknown certificate code",
					zap.String("code", code),
					zap.String("measure", m.ID))
				continue
			}
			if seen[c.Question] {
				continue
			}
			seen[c.Question] = true
			field := wizard.QuestionField(c.Question)
			out = append(out, Question{ID: c.Question, Field: field, Answer: answerOf(a, field)})
		}
	})
	return out
}

// NextUnanswered returns the first question without an answer.
func NextUnanswered(qs []Question) (Question, bool) {
	for _, q := range qs {
		if !q.Answered() {
			return q, true
		}
	}
	return Question{}, false
}

func answerOf(a types.Answers, field string) string {
	v := a.Get(field)
	for _, opt := range wizard.QuestionAnswers {
		if v == opt {
			return v
		}
	}
	return ""
}

// walkMeasures visits applicable measures depth first.
func walkMeasures(ms []tariff.Measure, a types.Answers, visit func(tariff.Measure)) {
	for _, m := range ms {
		if !applies(m, a) {
			continue
		}
		visit(m)
		walkMeasures(m.Children, a, visit)
	}
}

func applies(m tariff.Measure, a types.Answers) bool {
	if m.Gate == nil {
		return true
	}
	return a.Get(wizard.QuestionField(m.Gate.Question)) == m.Gate.Answer
}
