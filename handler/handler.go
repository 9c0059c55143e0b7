package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"movie-crew-api/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"

	msgInvalidParams = "Missing or invalid parameters"
	msgCrewNotFound  = "Crew member not found for the specified role and movie"
	msgNoNameMatch   = "No crew member names contain the provided substring"
	msgInternal      = "Internal Server Error"
)

type CrewLookup interface {
	Lookup(ctx context.Context, in usecase.LookupInput) (usecase.LookupOutput, error)
}

type crewResponse struct {
	Role  string `json:"role"`
	Names string `json:"names"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Handler serves GET /crew/{role}/movies/{movieId}[?name=...] behind an
// API Gateway HTTP API.
type Handler struct {
	crew CrewLookup
}

func NewHandler(crew CrewLookup) (*Handler, error) {
	if crew == nil {
		return nil, errors.New("handler: crew lookup must not be nil")
	}
	return &Handler{crew: crew}, nil
}

// Handle never returns a non-nil error; every failure is encoded in the response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	corrID := correlationID(req)
	in := usecase.LookupInput{
		Role:          req.PathParameters["role"],
		MovieID:       req.PathParameters["movieId"],
		NameSubstring: req.QueryStringParameters["name"],
	}
	log := slog.With("correlation_id", corrID, "role", in.Role, "movie_id", in.MovieID)
	log.InfoContext(ctx, "fetching crew by role", "name_filter", in.NameSubstring)

	out, err := h.crew.Lookup(ctx, in)
	if err != nil {
		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "crew lookup failed", "status", status, "err", err)
		} else {
			log.WarnContext(ctx, "crew lookup rejected", "status", status, "err", err)
		}
		return respond(status, body, corrID), nil
	}

	log.InfoContext(ctx, "crew lookup succeeded", "status", http.StatusOK)
	return respond(http.StatusOK, crewResponse{Role: out.Role, Names: out.Names}, corrID), nil
}

func errorBody(err error) (int, errorResponse) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return http.StatusInternalServerError, errorResponse{Message: msgInternal, Error: err.Error()}
	}
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, errorResponse{Message: msgInvalidParams}
	case usecase.ErrorCrewNotFound:
		return http.StatusNotFound, errorResponse{Message: msgCrewNotFound}
	case usecase.ErrorNameNotMatched:
		return http.StatusNotFound, errorResponse{Message: msgNoNameMatch}
	default:
		detail := ucErr.Error()
		if ucErr.Err != nil {
			detail = ucErr.Err.Error()
		}
		return http.StatusInternalServerError, errorResponse{Message: msgInternal, Error: detail}
	}
}

func respond(status int, body any, corrID string) events.APIGatewayV2HTTPResponse {
	headers := map[string]string{
		"Content-Type":    "application/json",
		correlationHeader: corrID,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		slog.Error("failed to encode response body", "err", err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       `{"message":"Internal Server Error"}`,
		}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(raw),
	}
}

// correlationID prefers the caller's header, then the gateway request ID.
func correlationID(req events.APIGatewayV2HTTPRequest) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return v
		}
	}
	if req.RequestContext.RequestID != "" {
		return req.RequestContext.RequestID
	}
	return uuid.NewString()
}
