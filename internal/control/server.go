package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/nimbusdb/cstress/internal/collector"
	"github.com/nimbusdb/cstress/internal/session"
)

// Server is the optional remote-control surface of spec §4.9: one JSON
// object per request, one per response, over a line-oriented TCP
// transport, backed by a Manager enforcing run exclusivity.
type Server struct {
	manager           *Manager
	listener          net.Listener
	heartbeatInterval time.Duration
	log               *slog.Logger

	wg sync.WaitGroup
}

// NewServer builds a Server bound to addr (host:port). heartbeat <= 0
// disables the out-of-band heartbeat frame.
func NewServer(addr string, manager *Manager, heartbeat time.Duration, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("control: listen %s: %w", addr, err)
	}
	return &Server{manager: manager, listener: ln, heartbeatInterval: heartbeat, log: log}, nil
}

// Addr returns the bound listener address, useful when addr was ":0".
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting new connections and then waits until every open
// connection has ended. It does not close open connections itself, so it
// returns only after each client has disconnected.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var writeMu sync.Mutex
	writeLine := func(v interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		enc := json.NewEncoder(conn)
		if err := enc.Encode(v); err != nil {
			s.log.Warn("control: write failed", "error", err)
		}
	}

	stopHeartbeat := func() {}
	if s.heartbeatInterval > 0 {
		done := make(chan struct{})
		stopHeartbeat = sync.OnceFunc(func() { close(done) })
		go func() {
			ticker := time.NewTicker(s.heartbeatInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					writeLine(map[string]bool{"heartbeat": true})
				case <-done:
					return
				}
			}
		}()
	}
	defer stopHeartbeat()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			writeLine(errorResponse(fmt.Sprintf("malformed request: %v", err)))
			continue
		}
		writeLine(s.dispatch(req))
	}
}

func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case "list_workloads":
		return listWorkloads()
	case "info":
		name, _ := stringParam(req.Params, "workload")
		return info(name)
	case "fields":
		return fields()
	case "run":
		return s.handleRun(req)
	case "status":
		return s.handleStatus()
	case "stop":
		return s.handleStop()
	default:
		return errorResponse(fmt.Sprintf("unrecognised command %q", req.Command))
	}
}

func (s *Server) handleRun(req Request) Response {
	if req.Config == nil {
		return errorResponse("run requires a config object")
	}
	if err := req.Config.Validate(); err != nil {
		return errorResponse(err.Error())
	}

	sess := session.NewFakeSession()
	result, err := s.manager.Start(req.Config, collector.NewComposite(), sess)
	if err != nil {
		return errorResponse(err.Error())
	}
	return okResponse(map[string]string{"jobId": result.JobID})
}

type statusResult struct {
	Status      string      `json:"status"`
	JobID       string      `json:"jobId,omitempty"`
	Config      interface{} `json:"config,omitempty"`
	Metrics     interface{} `json:"metrics,omitempty"`
	LastRunTime string      `json:"lastRunTime,omitempty"`
}

func (s *Server) handleStatus() Response {
	view := s.manager.Status()
	res := statusResult{Status: string(view.Status)}
	if view.Running {
		res.JobID = view.JobID
		res.Config = view.Config
		res.Metrics = view.Metrics
	}
	if !view.LastRunTime.IsZero() {
		res.LastRunTime = view.LastRunTime.Format(time.RFC3339)
	}
	return okResponse(res)
}

func (s *Server) handleStop() Response {
	if err := s.manager.Stop(); err != nil {
		return errorResponse(err.Error())
	}
	return okResponse(map[string]bool{"stopped": true})
}

func stringParam(params map[string]json.RawMessage, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing param %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}
