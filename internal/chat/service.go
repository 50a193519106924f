package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Фиксированные реплики ассистента.
const (
	Greeting      = "Hi! I'm the HuCreative assistant. How can I help you with your design project today?"
	EmptyReply    = "I'm sorry, I couldn't generate a response."
	FallbackReply = "I'm having trouble connecting right now. Please try again later or contact Pankaj directly."
)

// SystemInstruction задаёт роль ассистента и базу знаний о студии.
const SystemInstruction = `Role:
You are an interactive assistant integrated into a professional portfolio website for "HuCreative Studio". Your purpose is to help visitors understand the creator's services, skills, work process, pricing, and project requirements. Respond clearly, politely, and confidently. Always guide users toward taking action or contacting the freelancer if appropriate.

1. About the Freelancer (Internal Knowledge Base)
Primary Skills & Services:
- Website Frontend Design (clean, modern, responsive)
- Logo Design
- Ad Poster Design
- AI-powered Content Writing
- Prompt Writing & Prompt Engineering
- UX-oriented planning and design strategy
- Animated UI/UX elements for websites
- Creative branding and visual identity design

Work Style & Strengths:
- Professional and client-friendly communication
- Fast delivery with attention to detail
- Ability to convert client ideas into polished, modern designs
- Uses AI tools to increase speed and efficiency
- Provides clear project workflows and transparent processes

2. Pricing & Package Information:
- Starter Package: Basic design support, Simple visual assets, 1-2 revisions, Quick delivery.
- Pro Package: More advanced designs, Multiple sections/pages, 3-4 revisions, Extra customization. Ideal for small businesses.
- Elite Package: Full premium experience, Advanced interactions, Multiple design assets, High customization. Best for brands seeking professional identity.
(Note: You may answer pricing questions by giving general guidance and advising the user to contact the freelancer for final, accurate pricing.)

3. Response Style & Tone:
- Be friendly, professional, and confident.
- Keep answers clear and client-focused.
- Use simple language.
- Highlight the freelancer's strengths naturally.
- Never sound robotic or overly formal.

4. Assistant Behavior Instructions:
- If you don't know exact pricing or availability, say: "Pricing and timelines depend on project complexity. You can share your idea, and the freelancer will provide the best quote."
- If a user expresses interest in starting a project, guide them to the contact page or email.
- Keep answers concise but informative.`

var (
	// ErrSessionNotFound возвращается для неизвестного идентификатора сессии.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrBusy возвращается, пока предыдущее сообщение сессии ждёт ответа.
	ErrBusy = errors.New("previous message is still in flight")
	// ErrEmptyMessage возвращается для пустого текста сообщения.
	ErrEmptyMessage = errors.New("message is empty")
)

// Generator описывает внешний AI-сервис.
type Generator interface {
	Generate(ctx context.Context, system string, history []Turn) (string, error)
}

type session struct {
	mu       sync.Mutex
	busy     bool
	history  []Turn
	lastUsed time.Time
}

// Service хранит сессии диалога в памяти процесса.
type Service struct {
	gen    Generator
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewService создаёт сервис диалогов поверх gen.
func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gen:      gen,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// StartSession открывает новую сессию и возвращает её идентификатор и приветствие.
func (s *Service) StartSession() (string, Turn) {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &session{lastUsed: s.now()}
	s.mu.Unlock()

	return id, Turn{Role: RoleModel, Text: Greeting}
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Send передаёт сообщение посетителя в AI-сервис и возвращает ответ.
// В каждой сессии одновременно обрабатывается не больше одного сообщения.
// Сбой сервиса заменяется фиксированным ответом, сессия остаётся рабочей.
func (s *Service) Send(ctx context.Context, id, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	sess, err := s.lookup(id)
	if err != nil {
		return Turn{}, err
	}

	sess.mu.Lock()
	if sess.busy {
		sess.mu.Unlock()
		return Turn{}, ErrBusy
	}
	sess.busy = true
	pending := append(append(make([]Turn, 0, len(sess.history)+1), sess.history...), Turn{Role: RoleUser, Text: text})
	sess.mu.Unlock()

	reply, genErr := s.gen.Generate(ctx, SystemInstruction, pending)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.busy = false
	sess.lastUsed = s.now()

	if genErr != nil {
		s.logger.Warn("chat service failed", zap.String("session", id), zap.Error(genErr))
		return Turn{Role: RoleModel, Text: FallbackReply}, nil
	}

	if reply == "" {
		reply = EmptyReply
	}
	answer := Turn{Role: RoleModel, Text: reply}
	sess.history = append(pending, answer)

	return answer, nil
}

// History возвращает копию истории сессии без приветствия.
func (s *Service) History(id string) ([]Turn, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]Turn(nil), sess.history...), nil
}

// Prune удаляет простаивающие дольше ttl сессии, кроме ожидающих ответа, и возвращает их число.
func (s *Service) Prune(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := !sess.busy && sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartPruning периодически удаляет простаивающие сессии до отмены ctx.
func (s *Service) StartPruning(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(ttl); n > 0 {
				s.logger.Debug("chat sessions pruned", zap.Int("count", n))
			}
		}
	}
}
