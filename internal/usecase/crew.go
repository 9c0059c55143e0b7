package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"movie-crew-api/internal/domain"
)

const namesSeparator = ", "

type CrewReader interface {
	QueryCrew(ctx context.Context, movieID int, role string) ([]domain.CrewRecord, error)
}

type CrewService struct {
	crew CrewReader
}

// LookupInput carries the raw request parameters. MovieID is still the
// path-encoded string; NameSubstring is empty when no filter was requested.
type LookupInput struct {
	Role          string
	MovieID       string
	NameSubstring string
}

type LookupOutput struct {
	Role  string
	Names string
}

func NewCrewService(r CrewReader) (*CrewService, error) {
	if r == nil {
		return nil, errors.New("usecase: crew reader must not be nil")
	}
	return &CrewService{crew: r}, nil
}

// Lookup runs validate, query, optional filter and join, in that order.
// Every failure is returned as *Error.
func (s *CrewService) Lookup(ctx context.Context, in LookupInput) (LookupOutput, error) {
	if in.Role == "" {
		return LookupOutput{}, newError(ErrorInvalidInput, "missing_role", nil)
	}
	movieID, err := parseMovieID(in.MovieID)
	if err != nil {
		return LookupOutput{}, newError(ErrorInvalidInput, "invalid_movie_id", err)
	}

	records, err := s.crew.QueryCrew(ctx, movieID, in.Role)
	if err != nil {
		return LookupOutput{}, newError(ErrorInternal, "dynamodb_query_error", err)
	}
	if len(records) == 0 {
		return LookupOutput{}, newError(ErrorCrewNotFound, "no_records_for_key", nil)
	}

	if in.NameSubstring != "" {
		records = filterByName(records, in.NameSubstring)
		if len(records) == 0 {
			return LookupOutput{}, newError(ErrorNameNotMatched, "no_names_contain_substring", nil)
		}
	}

	return LookupOutput{
		Role:  in.Role,
		Names: joinNames(records),
	}, nil
}

// parseMovieID accepts a base-10 integer. Zero counts as missing.
func parseMovieID(raw string) (int, error) {
	if raw == "" {
		return 0, errors.New("movie id is empty")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("movie id is zero")
	}
	return id, nil
}

// filterByName keeps records whose names contain sub, case-sensitively.
func filterByName(records []domain.CrewRecord, sub string) []domain.CrewRecord {
	kept := make([]domain.CrewRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(r.Names, sub) {
			kept = append(kept, r)
		}
	}
	return kept
}

func joinNames(records []domain.CrewRecord) string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Names
	}
	return strings.Join(names, namesSeparator)
}
