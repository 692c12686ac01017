package server

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"resumematch/internal/common"
	"resumematch/internal/types"
)

const tracerName = "resumematch.api"

// analysis decodes and validates a request of type In, runs it inside an
// "api.<operation>" span and writes the result as JSON.
func analysis[In any, Out any](s *Server, operation string, run func(ctx context.Context, req *In) (Out, []attribute.KeyValue, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.Observability.Tracer(tracerName).Start(r.Context(), "api."+operation)
		defer span.End()
		span.SetAttributes(attribute.String("operation", operation))

		var req In
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "decode"))
			writeError(w, "Invalid request body", err)
			return
		}
		if err := common.ValidateStruct(&req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeError(w, "Invalid request", err)
			return
		}

		result, attrs, err := run(ctx, &req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.Logger.LogError(err, "Analysis failed", "operation", operation)
			writeError(w, "Analysis failed", err)
			return
		}

		span.SetAttributes(attrs...)
		span.SetAttributes(attribute.Bool("success", true))
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) matchHandler() http.HandlerFunc {
	return analysis(s, "match", func(ctx context.Context, req *types.MatchInput) (*types.MatchReport, []attribute.KeyValue, error) {
		report, err := s.Engine.Match(ctx, req.Resume, req.JobDescription)
		if err != nil {
			return nil, nil, err
		}
		return report, []attribute.KeyValue{
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Float64("match.score", report.Score),
			attribute.Int("match.missing_skills", len(report.MissingSkills)),
		}, nil
	})
}

func (s *Server) rankHandler() http.HandlerFunc {
	return analysis(s, "rank", func(ctx context.Context, req *types.RankInput) (*types.RankingReport, []attribute.KeyValue, error) {
		report, err := s.Engine.Rank(ctx, req.Resumes, req.JobDescription)
		if err != nil {
			return nil, nil, err
		}
		return report, []attribute.KeyValue{
			attribute.Int("rank.resumes", len(req.Resumes)),
			attribute.Float64("rank.best_score", report.BestScore),
		}, nil
	})
}

func (s *Server) skillsHandler() http.HandlerFunc {
	return analysis(s, "skills", func(ctx context.Context, req *types.SkillsInput) (*types.SkillsResult, []attribute.KeyValue, error) {
		result := s.Engine.ExtractSkills(ctx, req.Text)
		return result, []attribute.KeyValue{attribute.Int("skills.count", result.Count)}, nil
	})
}

func (s *Server) similarityHandler() http.HandlerFunc {
	return analysis(s, "similarity", func(ctx context.Context, req *types.SimilarityInput) (*types.SimilarityResult, []attribute.KeyValue, error) {
		result := s.Engine.Similarity(ctx, req.TextA, req.TextB, req.Sections)
		return result, []attribute.KeyValue{
			attribute.Float64("similarity.score", result.Score),
			attribute.Bool("similarity.sections", req.Sections),
		}, nil
	})
}

func (s *Server) suggestionsHandler() http.HandlerFunc {
	return analysis(s, "suggestions", func(ctx context.Context, req *types.SuggestionsInput) (*types.SuggestionsResult, []attribute.KeyValue, error) {
		result := s.Engine.Suggest(ctx, req.Resume, req.JobDescription, req.MissingSkills)
		return result, []attribute.KeyValue{attribute.Int("suggestions.missing_skills", len(result.MissingSkills))}, nil
	})
}

func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Info())
}
