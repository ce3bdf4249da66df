package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sprite-ai/ctrev/internal/precheck"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// documentRequest carries a tree in its tagged JSON form.
type documentRequest struct {
	Document json.RawMessage `json:"document"`
}

// --- Validate ---

type validateResponse struct {
	Valid     bool                `json:"valid"`
	Report    *structtext.Report  `json:"report,omitempty"`
	Rejection *precheck.Rejection `json:"rejection,omitempty"`
}

// validate runs the pre-publish check on raw tree JSON.
func validate(c *precheck.Checker, raw json.RawMessage) validateResponse {
	_, res, err := c.CheckJSON(raw)
	if err != nil {
		var rej *precheck.Rejection
		if !errors.As(err, &rej) {
			rej = &precheck.Rejection{Code: precheck.CodeMalformed, Message: err.Error()}
		}
		return validateResponse{Rejection: rej}
	}
	return validateResponse{Valid: true, Report: &res.Report}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if len(req.Document) == 0 {
		s.writeError(w, http.StatusBadRequest, "document is required")
		return
	}

	resp := validate(s.checker, req.Document)
	status := http.StatusOK
	if !resp.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, resp)
}

// --- Flatten ---

type flattenResponse struct {
	Texts []string `json:"texts"`
	Links []string `json:"links"`
	Text  string   `json:"text"`
}

func newFlattenResponse(root structtext.Node) flattenResponse {
	flat := structtext.Flatten(root)
	resp := flattenResponse{Texts: flat.Texts, Links: flat.Links, Text: flat.Text()}
	if resp.Texts == nil {
		resp.Texts = []string{}
	}
	if resp.Links == nil {
		resp.Links = []string{}
	}
	return resp
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	root, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, newFlattenResponse(root))
}

// --- Encode / Decode ---

type encodedJSON struct {
	Encoded string `json:"encoded"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	root, ok := s.readDocument(w, r)
	if !ok {
		return
	}
	enc, err := structtext.EncodeCompressed(root)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "encoding: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, encodedJSON{Encoded: enc})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req encodedJSON
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Encoded == "" {
		s.writeError(w, http.StatusBadRequest, "encoded is required")
		return
	}
	root, err := structtext.DecodeCompressed(req.Encoded)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "decoding: "+err.Error())
		return
	}
	raw, err := structtext.Encode(root)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "encoding: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, documentRequest{Document: raw})
}

// readDocument decodes the request's tree, writing a 400 on failure.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (structtext.Node, bool) {
	var req documentRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return nil, false
	}
	if len(req.Document) == 0 {
		s.writeError(w, http.StatusBadRequest, "document is required")
		return nil, false
	}
	root, err := structtext.Decode(req.Document)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "decoding document: "+err.Error())
		return nil, false
	}
	return root, true
}
