package usecase

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"deskmate/internal/analyzer"
	"deskmate/internal/command"
	"deskmate/internal/domain"
	"deskmate/internal/integrations/paramstore"
	"deskmate/internal/knowledge"
	"deskmate/internal/research"
	"deskmate/internal/session"
	"deskmate/internal/synth"
)

const (
	defaultMaxContext   = 20
	defaultMaxUtterance = 500
	defaultHistoryCap   = 200
)

// ParamGetter supplies persona and knowledge parameters.
type ParamGetter = paramstore.Getter

// Transcript is the durable mirror of conversation history.
type Transcript interface {
	AppendTurns(ctx context.Context, conversationID string, turns ...domain.Turn) error
	GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.Turn, error)
}

type Researcher interface {
	Research(ctx context.Context, question string) domain.ResearchResult
}

// Config carries the tunables of ChatService. Zero values pick defaults.
type Config struct {
	ParamPrefix     string
	MaxContextItems int
	MaxUtteranceLen int
	HistoryCap      int
	Persona         string
	Facts           []knowledge.Fact
	MatchThreshold  float64
	TypingDelay     time.Duration
	Seed            uint64
	Env             knowledge.Env
	Clock           func() time.Time
}

// Deps are the collaborators of ChatService. Params may be nil, in which
// case the profile comes from Config alone.
type Deps struct {
	Params     ParamGetter
	Transcript Transcript
	Sessions   *session.Store
	Researcher Researcher
}

type ChatService struct {
	params      ParamGetter
	transcript  Transcript
	sessions    *session.Store
	researcher  Researcher
	paramPrefix string
	cfg         Config
	now         func() time.Time

	cacheMu sync.RWMutex
	profile *profile
}

type ChatInput struct {
	Utterance      string
	ConversationID string
}

type ChatOutput struct {
	Reply          string                 `json:"reply"`
	ConversationID string                 `json:"conversationId"`
	Classification domain.Classification  `json:"classification"`
	Source         string                 `json:"source"`
	Confidence     float64                `json:"confidence"`
	Research       *domain.ResearchResult `json:"research,omitempty"`
	Command        *command.Command       `json:"command,omitempty"`
}

// SourceCommand marks a turn that was handed to the command dispatcher.
const SourceCommand = "command"

type WelcomeOutput struct {
	Text           string
	ConversationID string
	Recorded       bool
}

func NewChatService(deps Deps, cfg Config) (*ChatService, error) {
	if deps.Transcript == nil {
		return nil, errors.New("usecase: transcript must not be nil")
	}
	if deps.Sessions == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	if deps.Researcher == nil {
		return nil, errors.New("usecase: researcher must not be nil")
	}
	if cfg.MaxContextItems <= 0 {
		cfg.MaxContextItems = defaultMaxContext
	}
	if cfg.MaxUtteranceLen <= 0 {
		cfg.MaxUtteranceLen = defaultMaxUtterance
	}
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = defaultHistoryCap
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		params:      deps.Params,
		transcript:  deps.Transcript,
		sessions:    deps.Sessions,
		researcher:  deps.Researcher,
		paramPrefix: strings.TrimRight(strings.TrimSpace(cfg.ParamPrefix), "/"),
		cfg:         cfg,
		now:         now,
	}, nil
}

// Chat runs one turn of the pipeline for a conversation.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	utterance := strings.TrimSpace(in.Utterance)
	if utterance == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_utterance", nil)
	}
	if utf8.RuneCountInString(utterance) > s.cfg.MaxUtteranceLen {
		return ChatOutput{}, newError(ErrorInvalidInput, "utterance_too_long", nil)
	}
	convID := strings.TrimSpace(in.ConversationID)
	if convID == "" {
		convID = newUUID()
	}

	if cmd, ok := command.Extract(utterance); ok {
		slog.InfoContext(ctx, "command extracted", "conversation_id", convID, "command", cmd.Name)
		return ChatOutput{
			ConversationID: convID,
			Classification: domain.Classification{Intent: domain.IntentCommand, Tone: domain.ToneNeutral, Topic: domain.TopicGeneral},
			Source:         SourceCommand,
			Confidence:     1,
			Command:        &cmd,
		}, nil
	}

	p, err := s.ensureProfile(ctx)
	if err != nil {
		return ChatOutput{}, newError(ErrorInternal, "profile_load_error", err)
	}

	conv, release, err := s.acquire(ctx, convID)
	if err != nil {
		return ChatOutput{}, err
	}
	defer release()

	c := analyzer.Analyze(utterance, conv.Window(s.cfg.MaxContextItems))

	material := synth.Input{Utterance: utterance, Classification: c}
	confidence := 0.0
	if ans, ok := p.kb.Find(utterance); ok {
		material.Knowledge = ans.Text
		confidence = ans.Score
	} else if research.Eligible(c, false) {
		rr := s.researcher.Research(ctx, utterance)
		material.Research = &rr
		confidence = rr.Confidence
	}
	reply := p.synth.Compose(material)
	if reply.Source == synth.SourceTemplate {
		confidence = 0
	}

	now := s.now()
	user := domain.Turn{Role: domain.RoleUser, Text: utterance, Timestamp: now}
	assistant := domain.Turn{Role: domain.RoleAssistant, Text: reply.Text, Timestamp: now}
	conv.Append(user.Role, user.Text, user.Timestamp)
	conv.Append(assistant.Role, assistant.Text, assistant.Timestamp)

	if err := s.transcript.AppendTurns(ctx, convID, user, assistant); err != nil {
		slog.WarnContext(ctx, "transcript append failed", "conversation_id", convID, "err", err)
	}

	slog.InfoContext(ctx, "turn complete",
		"conversation_id", convID,
		"persona", p.synth.Persona(),
		"intent", c.Intent,
		"tone", c.Tone,
		"source", reply.Source,
		"confidence", confidence,
	)
	return ChatOutput{
		Reply:          reply.Text,
		ConversationID: convID,
		Classification: c,
		Source:         string(reply.Source),
		Confidence:     confidence,
		Research:       material.Research,
	}, nil
}

// Stream runs Chat and returns its output together with the reply split
// into display tokens. The turn is already recorded when Stream returns.
func (s *ChatService) Stream(ctx context.Context, in ChatInput) (ChatOutput, iter.Seq[string], error) {
	out, err := s.Chat(ctx, in)
	if err != nil {
		return ChatOutput{}, nil, err
	}
	p, err := s.ensureProfile(ctx)
	if err != nil {
		return ChatOutput{}, nil, newError(ErrorInternal, "profile_load_error", err)
	}
	return out, p.synth.Stream(ctx, out.Reply), nil
}

// Welcome returns an opening line for a conversation. It is recorded only
// when the conversation already holds a user turn.
func (s *ChatService) Welcome(ctx context.Context, conversationID string) (WelcomeOutput, error) {
	p, err := s.ensureProfile(ctx)
	if err != nil {
		return WelcomeOutput{}, newError(ErrorInternal, "profile_load_error", err)
	}
	convID := strings.TrimSpace(conversationID)
	if convID == "" {
		convID = newUUID()
	}

	conv, release, err := s.acquire(ctx, convID)
	if err != nil {
		return WelcomeOutput{}, err
	}
	defer release()

	out := WelcomeOutput{Text: p.synth.Welcome(), ConversationID: convID}
	if conv.UserTurnCount() == 0 {
		return out, nil
	}

	turn := domain.Turn{Role: domain.RoleAssistant, Text: out.Text, Timestamp: s.now()}
	conv.Append(turn.Role, turn.Text, turn.Timestamp)
	if err := s.transcript.AppendTurns(ctx, convID, turn); err != nil {
		slog.WarnContext(ctx, "transcript append failed", "conversation_id", convID, "err", err)
	}
	out.Recorded = true
	return out, nil
}

// History returns the turns of a conversation, oldest first.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]domain.Turn, error) {
	convID := strings.TrimSpace(conversationID)
	if convID == "" {
		return nil, newError(ErrorInvalidInput, "missing_conversation_id", nil)
	}
	conv, release, err := s.acquire(ctx, convID)
	if err != nil {
		return nil, err
	}
	defer release()
	return conv.Turns(), nil
}

// acquire holds the conversation for the caller, hydrating it from the
// transcript the first time this process sees the id.
func (s *ChatService) acquire(ctx context.Context, convID string) (*session.Conversation, func(), error) {
	conv, release, created, err := s.sessions.Acquire(ctx, convID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, newError(ErrorTimeout, "context_done", err)
		}
		return nil, nil, newError(ErrorInternal, "session_error", err)
	}
	if created {
		turns, err := s.transcript.GetHistory(ctx, convID, s.cfg.HistoryCap)
		if err != nil {
			slog.WarnContext(ctx, "transcript hydrate failed", "conversation_id", convID, "err", err)
		} else {
			conv.Hydrate(turns)
		}
	}
	return conv, release, nil
}

var newUUID = func() string {
	return uuid.NewString()
}
