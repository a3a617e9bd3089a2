package assistant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goncalo-araujo/babyshower/internal/config"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"go.uber.org/zap"
)

// fallbackReply is what the guest sees when a model call fails. Chat never
// surfaces an HTTP error for model trouble; the conversation just continues.
const fallbackReply = "Sorry, I'm having a little trouble right now. Please try again in a moment."

// PendingContribution is an unconfirmed, machine-extracted pledge. The guest
// must confirm it before the ledger is touched.
type PendingContribution struct {
	ItemID    uint   `json:"item_id"`
	ItemTitle string `json:"item_title"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount_cents"`
	Message   string `json:"message,omitempty"`
}

// PendingCancellation is an unconfirmed cancellation of one of the guest's
// own pledges.
type PendingCancellation struct {
	ContributionID uint   `json:"contribution_id"`
	ItemTitle      string `json:"item_title"`
	Amount         int64  `json:"amount_cents"`
}

// Result is one chat turn's outcome.
type Result struct {
	Reply        string
	Contribution *PendingContribution
	Cancellation *PendingCancellation
}

// Pipeline runs the two-stage model interaction: a conversational responder
// constrained by the registry snapshot, then a separately-prompted extractor
// that turns the transcript into at most one guarded action proposal. The
// pipeline itself never mutates state.
type Pipeline struct {
	gen          Generator
	historyTurns int
	timeout      time.Duration
	log          *zap.Logger
}

func NewPipeline(gen Generator, cfg config.AssistantConfig, log *zap.Logger) *Pipeline {
	turns := cfg.HistoryTurns
	if turns <= 0 {
		turns = 10
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{gen: gen, historyTurns: turns, timeout: timeout, log: log}
}

// rawProposal is the extractor's untrusted output shape.
type rawProposal struct {
	Action         string  `json:"action"`
	ItemID         uint    `json:"item_id"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"` // euros
	Message        string  `json:"message"`
	ContributionID uint    `json:"contribution_id"`
}

// Run executes one chat turn. Model failures degrade: responder failure
// yields the canned reply with no action, extractor failure keeps the reply
// and drops the action.
func (p *Pipeline) Run(ctx context.Context, snap Snapshot, history []Turn, message string) Result {
	if p.gen == nil {
		return Result{Reply: fallbackReply}
	}

	if len(history) > p.historyTurns {
		history = history[len(history)-p.historyTurns:]
	}

	reply, err := p.generate(ctx, responderSystem, buildResponderPrompt(snap, history, message))
	if err != nil {
		p.log.Warn("responder call failed", zap.Error(err))
		return Result{Reply: fallbackReply}
	}

	raw, err := p.generate(ctx, extractorSystem, buildExtractorPrompt(snap, history, message, reply))
	if err != nil {
		p.log.Warn("extractor call failed", zap.Error(err))
		return Result{Reply: reply}
	}

	res := Result{Reply: reply}
	p.attachProposal(&res, snap, raw)
	return res
}

func (p *Pipeline) generate(ctx context.Context, system, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.gen.Generate(callCtx, system, prompt)
}

// attachProposal parses and validates the extractor output. The extractor is
// not trusted to enforce business rules: every reference is cross-checked
// against the turn's snapshot, and anything invalid is dropped silently.
func (p *Pipeline) attachProposal(res *Result, snap Snapshot, raw string) {
	obj := extractJSON(raw)
	if obj == "" {
		return
	}

	var proposal rawProposal
	if err := json.Unmarshal([]byte(obj), &proposal); err != nil {
		p.log.Debug("unparseable extractor output", zap.Error(err))
		return
	}

	switch proposal.Action {
	case "contribute":
		item, ok := snap.item(proposal.ItemID)
		if !ok || item.IsFunded {
			return
		}
		if proposal.Amount > util.MaxAmountEuro {
			return
		}
		name := util.Sanitize(proposal.Name, util.MaxNameLen)
		amount := util.EuroToCent(proposal.Amount)
		if name == "" || amount <= 0 {
			return
		}
		res.Contribution = &PendingContribution{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			Name:      name,
			Amount:    amount,
			Message:   util.Sanitize(proposal.Message, util.MaxMessageLen),
		}
	case "cancel":
		// only the caller's own pledges, per the snapshot given to the
		// extractor, not re-queried
		own, ok := snap.ownContribution(proposal.ContributionID)
		if !ok {
			return
		}
		res.Cancellation = &PendingCancellation{
			ContributionID: own.ID,
			ItemTitle:      own.ItemTitle,
			Amount:         own.Amount,
		}
	}
}
