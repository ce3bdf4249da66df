package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/ctrev/internal/precheck"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // the server binds to localhost by default
	},
}

// WebSocket message types from client.
const (
	wsMsgValidate  = "validate"
	wsMsgFlatten   = "flatten"
	wsMsgSetLimits = "set_limits"
	wsMsgStats     = "stats"
)

// WebSocket message types to client.
const (
	wsMsgValidation = "validation"
	wsMsgFlattened  = "flattened"
	wsMsgLimits     = "limits"
	wsMsgSessionSum = "session"
	wsMsgError      = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsLimits overrides the session's validator limits. Omitted fields keep
// their current value.
type wsLimits struct {
	MinTotalTextLength *int `json:"min_total_text_length,omitempty"`
	MaxTotalTextLength *int `json:"max_total_text_length,omitempty"`
	MaxDepth           *int `json:"max_depth,omitempty"`
	MaxTextNodeLength  *int `json:"max_text_node_length,omitempty"`
}

type wsLimitsResponse struct {
	MinTotalTextLength int `json:"min_total_text_length"`
	MaxTotalTextLength int `json:"max_total_text_length"`
	MaxDepth           int `json:"max_depth"`
	MaxTextNodeLength  int `json:"max_text_node_length"`
}

// wsSessionResponse summarizes what the session has checked so far.
type wsSessionResponse struct {
	Checked  int            `json:"checked"`
	Valid    int            `json:"valid"`
	Rejected map[string]int `json:"rejected"`
}

// validationSession holds the state of one live validation connection.
type validationSession struct {
	limits   structtext.ValidatorOptions
	checker  *precheck.Checker
	checked  int
	valid    int
	rejected map[precheck.Code]int
}

func newValidationSession(limits structtext.ValidatorOptions) *validationSession {
	return &validationSession{
		limits:   limits,
		checker:  precheck.New(limits),
		rejected: make(map[precheck.Code]int),
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	session := newValidationSession(s.limits)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgValidate:
			s.handleWSValidate(conn, session, msg.Data)
		case wsMsgFlatten:
			s.handleWSFlatten(conn, msg.Data)
		case wsMsgSetLimits:
			s.handleWSSetLimits(conn, session, msg.Data)
		case wsMsgStats:
			s.handleWSStats(conn, session)
		default:
			s.sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) handleWSValidate(conn *websocket.Conn, session *validationSession, data json.RawMessage) {
	var req documentRequest
	if err := json.Unmarshal(data, &req); err != nil || len(req.Document) == 0 {
		s.sendWSError(conn, "invalid validate data")
		return
	}

	resp := validate(session.checker, req.Document)
	session.checked++
	if resp.Valid {
		session.valid++
	} else {
		session.rejected[resp.Rejection.Code]++
	}
	s.sendWSMessage(conn, wsMsgValidation, resp)
}

func (s *Server) handleWSFlatten(conn *websocket.Conn, data json.RawMessage) {
	var req documentRequest
	if err := json.Unmarshal(data, &req); err != nil || len(req.Document) == 0 {
		s.sendWSError(conn, "invalid flatten data")
		return
	}
	root, err := structtext.Decode(req.Document)
	if err != nil {
		s.sendWSError(conn, "decoding document: "+err.Error())
		return
	}
	s.sendWSMessage(conn, wsMsgFlattened, newFlattenResponse(root))
}

func (s *Server) handleWSSetLimits(conn *websocket.Conn, session *validationSession, data json.RawMessage) {
	var req wsLimits
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWSError(conn, "invalid set_limits data")
		return
	}

	limits := session.limits
	for _, f := range []struct {
		v   *int
		dst *int
	}{
		{req.MinTotalTextLength, &limits.MinTotalTextLength},
		{req.MaxTotalTextLength, &limits.MaxTotalTextLength},
		{req.MaxDepth, &limits.MaxDepth},
		{req.MaxTextNodeLength, &limits.MaxTextNodeLength},
	} {
		if f.v == nil {
			continue
		}
		if *f.v < 0 {
			s.sendWSError(conn, "limits must not be negative")
			return
		}
		*f.dst = *f.v
	}
	if limits.MaxTotalTextLength < limits.MinTotalTextLength {
		s.sendWSError(conn, "max_total_text_length is below min_total_text_length")
		return
	}

	session.limits = limits
	session.checker = precheck.New(limits)
	s.sendWSMessage(conn, wsMsgLimits, wsLimitsResponse{
		MinTotalTextLength: limits.MinTotalTextLength,
		MaxTotalTextLength: limits.MaxTotalTextLength,
		MaxDepth:           limits.MaxDepth,
		MaxTextNodeLength:  limits.MaxTextNodeLength,
	})
}

func (s *Server) handleWSStats(conn *websocket.Conn, session *validationSession) {
	rejected := make(map[string]int, len(session.rejected))
	for code, n := range session.rejected {
		rejected[string(code)] = n
	}
	s.sendWSMessage(conn, wsMsgSessionSum, wsSessionResponse{
		Checked:  session.checked,
		Valid:    session.valid,
		Rejected: rejected,
	})
}

func (s *Server) sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Printf("ws write: %v", err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, errMsg string) {
	s.sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
