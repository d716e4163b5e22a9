package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"returnrisk/pkg/data"
	"returnrisk/pkg/pipeline"
	"returnrisk/pkg/report"
	"returnrisk/pkg/risk"
	"returnrisk/pkg/session"
)

// DownloadName is the file name offered for the prediction workbook.
const DownloadName = "return_predictions.xlsx"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeFailure reports a pipeline failure. Problems with the caller's data
// are answered with 200 and success=false, malformed requests with 400.
func writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusOK
	var malformed *pipeline.MalformedInputError
	if errors.As(err, &malformed) {
		status = http.StatusBadRequest
	}
	log.Warn().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, envelope{Success: false, Error: message(err)})
}

func message(err error) string {
	var resolution *pipeline.SchemaResolutionError
	if errors.As(err, &resolution) {
		return fmt.Sprintf("Errors: %s. Available columns: %s",
			strings.Join(resolution.Problems, "; "), strings.Join(resolution.Available, ", "))
	}
	return err.Error()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

type analyzeResponse struct {
	Stats   risk.DatasetStats `json:"stats"`
	Preview []map[string]any  `json:"preview"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, fmt.Errorf("file is larger than %d bytes", tooLarge.Limit))
			return
		}
		writeFailure(w, errors.New("no file provided"))
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeFailure(w, errors.New("no file selected"))
		return
	}

	raw, err := data.Load(header.Filename, file)
	if err != nil {
		writeFailure(w, err)
		return
	}
	log.Info().Str("file", header.Filename).Strs("columns", raw.Columns).Msg("dataset uploaded")

	analysis, err := pipeline.Analyze(raw)
	if err != nil {
		writeFailure(w, err)
		return
	}
	// Only a successful analysis gets (or keeps) a session.
	sess := s.session(w, r)
	if err := sess.Do(func(st *session.State) error {
		st.SetAnalysis(analysis)
		return nil
	}); err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, analyzeResponse{Stats: analysis.Stats, Preview: analysis.Preview})
}

type visualization struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

type predictResponse struct {
	TotalOrders    int                      `json:"total_orders"`
	HighRisk       int                      `json:"high_risk"`
	HighPercent    string                   `json:"high_risk_percent"`
	MediumRisk     int                      `json:"medium_risk"`
	MediumPercent  string                   `json:"medium_risk_percent"`
	LowRisk        int                      `json:"low_risk"`
	LowPercent     string                   `json:"low_risk_percent"`
	Predictions    []risk.PreviewRow        `json:"predictions"`
	Visualizations []visualization          `json:"visualizations"`
	Metrics        pipeline.TrainingMetrics `json:"training_metrics"`
	DownloadURL    string                   `json:"download_url"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	sess := s.existingSession(r)
	if sess == nil {
		writeFailure(w, &session.StateError{Op: "predict", Err: session.ErrNoAnalysis})
		return
	}
	var resp predictResponse
	err := sess.Do(func(st *session.State) error {
		a, err := st.Analysis("predict")
		if err != nil {
			return err
		}
		res, err := pipeline.Run(a, s.cfg.Model.Options())
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := report.WriteWorkbook(&buf, a.Resolved, res.Prediction, res.Summary); err != nil {
			return err
		}
		st.SetResult(res, buf.Bytes())

		sum := res.Summary
		resp = predictResponse{
			TotalOrders:   sum.Total,
			HighRisk:      sum.High.Count,
			HighPercent:   sum.High.PercentText(),
			MediumRisk:    sum.Medium.Count,
			MediumPercent: sum.Medium.PercentText(),
			LowRisk:       sum.Low.Count,
			LowPercent:    sum.Low.PercentText(),
			Predictions:   sum.Preview,
			Metrics:       res.Model.Metrics,
			DownloadURL:   "/download",
		}
		png, err := report.Histogram(res.Prediction.Probabilities)
		if err != nil {
			// The chart is decoration; the scores still go out.
			log.Warn().Err(err).Msg("render histogram")
			return nil
		}
		resp.Visualizations = []visualization{{
			Title: "Probability distribution",
			Image: base64.StdEncoding.EncodeToString(png),
		}}
		return nil
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, resp)
}

// singleRequest accepts both the English field names and the French ones
// the first web form used.
type singleRequest struct {
	Category   *string  `json:"category"`
	Categorie  *string  `json:"categorie"`
	Price      *float64 `json:"price"`
	Prix       *float64 `json:"prix"`
	Rating     *float64 `json:"rating"`
	NoteClient *float64 `json:"note_client"`
}

func (req singleRequest) input() pipeline.ItemInput {
	in := pipeline.ItemInput{Price: firstOf(req.Price, req.Prix), Rating: firstOf(req.Rating, req.NoteClient)}
	if c := firstOf(req.Category, req.Categorie); c != nil {
		in.Category = *c
	}
	return in
}

func firstOf[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

func (s *Server) handlePredictSingle(w http.ResponseWriter, r *http.Request) {
	sess := s.existingSession(r)
	if sess == nil {
		writeFailure(w, &session.StateError{Op: "predict_single", Err: session.ErrNoAnalysis})
		return
	}
	var req singleRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, &pipeline.MalformedInputError{Field: "body", Reason: err.Error()})
		return
	}

	var out *pipeline.SinglePrediction
	err := sess.Do(func(st *session.State) error {
		a, err := st.Analysis("predict_single")
		if err != nil {
			return err
		}
		var m *pipeline.TrainedModel
		if res := st.Result(); res != nil {
			m = res.Model
		} else {
			if m, err = pipeline.Train(a.Cleaned, s.cfg.Model.Options()); err != nil {
				return err
			}
		}
		out, err = pipeline.PredictOne(a.Cleaned, a.Encoder, m, req.input())
		return err
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, out)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.existingSession(r)
	if sess == nil {
		http.Error(w, "no file available", http.StatusNotFound)
		return
	}
	var file []byte
	err := sess.Do(func(st *session.State) error {
		var err error
		file, err = st.Export("download")
		return err
	})
	if err != nil {
		if errors.Is(err, session.ErrNoPredictions) {
			http.Error(w, "no file available", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file)
}
