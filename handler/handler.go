// Package handler adapts API Gateway proxy events to the chat use case.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"deskmate/internal/command"
	"deskmate/internal/domain"
	"deskmate/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

type ChatService interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
	Welcome(ctx context.Context, conversationID string) (usecase.WelcomeOutput, error)
	History(ctx context.Context, conversationID string) ([]domain.Turn, error)
}

type Handler struct {
	uc ChatService
}

func NewHandler(uc ChatService) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

type chatRequest struct {
	Utterance      string `json:"utterance"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Reply          string           `json:"reply"`
	ConversationID string           `json:"conversationId"`
	Intent         domain.Intent    `json:"intent"`
	Tone           domain.Tone      `json:"tone"`
	Topic          domain.Topic     `json:"topic"`
	Source         string           `json:"source"`
	Confidence     float64          `json:"confidence"`
	Command        *command.Command `json:"command,omitempty"`
}

type welcomeRequest struct {
	ConversationID string `json:"conversationId"`
}

type welcomeResponse struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversationId"`
	Recorded       bool   `json:"recorded"`
}

type historyResponse struct {
	ConversationID string        `json:"conversationId"`
	Turns          []domain.Turn `json:"turns"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Handle routes POST /chat, POST /welcome and GET /history.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	log := slog.With("correlation_id", corrID, "method", req.HTTPMethod, "path", req.Path)

	route := strings.TrimSuffix(req.Path, "/")
	switch {
	case strings.HasSuffix(route, "/chat"):
		if req.HTTPMethod != http.MethodPost {
			return respondError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "", corrID), nil
		}
		return h.chat(ctx, log, req, corrID), nil
	case strings.HasSuffix(route, "/welcome"):
		if req.HTTPMethod != http.MethodPost {
			return respondError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "", corrID), nil
		}
		return h.welcome(ctx, log, req, corrID), nil
	case strings.HasSuffix(route, "/history"):
		if req.HTTPMethod != http.MethodGet {
			return respondError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "", corrID), nil
		}
		return h.history(ctx, log, req, corrID), nil
	default:
		return respondError(http.StatusNotFound, "NOT_FOUND", "", corrID), nil
	}
}

func (h *Handler) chat(ctx context.Context, log *slog.Logger, req events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	var in chatRequest
	if err := decodeBody(req, &in); err != nil {
		log.WarnContext(ctx, "invalid request body", "err", err)
		return respondError(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "invalid_body", corrID)
	}

	out, err := h.uc.Chat(ctx, usecase.ChatInput{Utterance: in.Utterance, ConversationID: in.ConversationID})
	if err != nil {
		return failure(ctx, log, err, corrID)
	}
	log.InfoContext(ctx, "chat served", "conversation_id", out.ConversationID, "source", out.Source)
	return respond(http.StatusOK, chatResponse{
		Reply:          out.Reply,
		ConversationID: out.ConversationID,
		Intent:         out.Classification.Intent,
		Tone:           out.Classification.Tone,
		Topic:          out.Classification.Topic,
		Source:         out.Source,
		Confidence:     out.Confidence,
		Command:        out.Command,
	}, corrID)
}

func (h *Handler) welcome(ctx context.Context, log *slog.Logger, req events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	var in welcomeRequest
	if strings.TrimSpace(req.Body) != "" {
		if err := decodeBody(req, &in); err != nil {
			log.WarnContext(ctx, "invalid request body", "err", err)
			return respondError(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "invalid_body", corrID)
		}
	}

	out, err := h.uc.Welcome(ctx, in.ConversationID)
	if err != nil {
		return failure(ctx, log, err, corrID)
	}
	return respond(http.StatusOK, welcomeResponse(out), corrID)
}

func (h *Handler) history(ctx context.Context, log *slog.Logger, req events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	id := req.QueryStringParameters["conversationId"]
	turns, err := h.uc.History(ctx, id)
	if err != nil {
		return failure(ctx, log, err, corrID)
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	return respond(http.StatusOK, historyResponse{ConversationID: id, Turns: turns}, corrID)
}

func decodeBody(req events.APIGatewayProxyRequest, v any) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return err
		}
		body = decoded
	}
	return json.Unmarshal(body, v)
}

func failure(ctx context.Context, log *slog.Logger, err error, corrID string) events.APIGatewayProxyResponse {
	status, code, reason := classify(err)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(ctx, "request failed", "code", code, "reason", reason, "err", err)
	} else {
		log.InfoContext(ctx, "request rejected", "code", code, "reason", reason)
	}
	return respondError(status, code, reason, corrID)
}

func classify(err error) (int, string, string) {
	code, reason := usecase.CodeOf(err)
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, string(code), reason
	case usecase.ErrorTimeout:
		return http.StatusGatewayTimeout, string(code), reason
	default:
		return http.StatusInternalServerError, string(usecase.ErrorInternal), reason
	}
}

func respondError(status int, code, reason, corrID string) events.APIGatewayProxyResponse {
	return respond(status, errorResponse{Error: code, Reason: reason}, corrID)
}

func respond(status int, body any, corrID string) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		raw = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(raw),
	}
}

// correlationID reuses the caller's id when present. Header names from API
// Gateway keep the client's casing.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return uuid.NewString()
}
