package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// maxUploadBytes bounds multipart audio/image uploads.
const maxUploadBytes = 32 << 20

// summarizePrefix is prepended to transcripts of uploaded audio files,
// as opposed to live voice recordings which are submitted verbatim.
const summarizePrefix = "Summarize this text: "

// --- Sessions ---

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sessions": s.conv.Sessions(r.Context()),
		"active":   s.conv.ActiveSession(),
	})
}

func (s *Server) handleSelectSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ID == "" {
		req.ID = domain.NewSession
	}

	active, err := s.conv.SelectSession(r.Context(), req.ID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"active":     active,
		"transcript": s.conv.Transcript(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.conv.DeleteSession(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Transcript ---

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"active":     s.conv.ActiveSession(),
		"transcript": s.conv.Transcript(),
	})
}

// --- Pending input ---

func (s *Server) handleSubmitText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Text == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	s.submit(w, r, domain.PendingInput{Kind: domain.InputText, Text: req.Text})
}

// handleSubmitVoice ingests a recorded voice clip: decode, transcribe,
// submit the transcription verbatim.
func (s *Server) handleSubmitVoice(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readUpload(w, r, "audio")
	if !ok {
		return
	}

	text, err := s.ingest.Transcribe(r.Context(), raw)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.submit(w, r, domain.PendingInput{Kind: domain.InputTranscribedAudio, Text: text})
}

// handleSubmitAudioFile ingests an uploaded audio file. Unlike live
// voice, the transcription is submitted as a summarization request.
func (s *Server) handleSubmitAudioFile(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readUpload(w, r, "audio")
	if !ok {
		return
	}

	text, err := s.ingest.Transcribe(r.Context(), raw)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.submit(w, r, domain.PendingInput{
		Kind: domain.InputTranscribedAudio,
		Text: summarizePrefix + text,
	})
}

func (s *Server) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readUpload(w, r, "image")
	if !ok {
		return
	}

	s.submit(w, r, domain.PendingInput{
		Kind:   domain.InputImage,
		Image:  raw,
		Prompt: r.FormValue("prompt"),
	})
}

// submit consumes one pending input and responds with the updated
// transcript.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, in domain.PendingInput) {
	if err := s.conv.Submit(r.Context(), in); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"active":     s.conv.ActiveSession(),
		"transcript": s.conv.Transcript(),
	})
}

// readUpload extracts one multipart file field. A false return means a
// response was already written.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, false
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("%s file is required", field),
		})
		return nil, false
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "failed to read upload"})
		return nil, false
	}
	if len(raw) == 0 {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("%s file is empty", field),
		})
		return nil, false
	}
	return raw, true
}
