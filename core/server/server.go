// Package server exposes the read-eval loop over SSH.
package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/parsley/core/config"
	"github.com/josephlewis42/parsley/core/logger"
	"github.com/josephlewis42/parsley/core/repl"
)

type sshContextKey struct {
	name string
}

// ContextAuthMethod holds the method the client authenticated with.
var ContextAuthMethod = sshContextKey{"auth-method"}

type Server struct {
	configuration *config.Configuration
	logger        *logger.Logger
	sshServer     *ssh.Server
}

// New creates a server from the configuration. Parse events for every session
// are written to events.
func New(configuration *config.Configuration, events *logger.Logger) (*Server, error) {
	keys, err := configuration.PublicKeys()
	if err != nil {
		return nil, err
	}

	hostKey, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("reading host key: %w", err)
	}

	server := &Server{
		configuration: configuration,
		logger:        events,
	}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", configuration.SSHPort),
		Handler: func(s ssh.Session) {
			if err := server.HandleConnection(s); err != nil {
				log.Printf("- Session from %s failed: %s", s.RemoteAddr(), err)
			}
		},
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			for _, allowed := range keys {
				if ssh.KeysEqual(key, allowed) {
					ctx.SetValue(ContextAuthMethod, "publickey")
					return true
				}
			}
			return false
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			want := configuration.Password
			if want == "" {
				return false
			}
			if subtle.ConstantTimeCompare([]byte(password), []byte(want)) != 1 {
				return false
			}
			ctx.SetValue(ContextAuthMethod, "password")
			return true
		},
	}

	if err := server.sshServer.SetOption(ssh.HostKeyPEM(hostKey)); err != nil {
		return nil, err
	}

	return server, nil
}

// HandleConnection runs one session. A command sent with the connection is
// parsed as a single line, otherwise the client gets the interactive loop.
func (h *Server) HandleConnection(s ssh.Session) error {
	pty, winch, isPty := s.Pty()

	session := &repl.Session{
		Stdout: s,
		Stderr: s.Stderr(),
		Log:    h.logger.NewSession(),
		Start: logger.SessionStart{
			Source:     "ssh",
			User:       s.User(),
			RemoteAddr: s.RemoteAddr().String(),
		},
	}
	session.ApplyConfig(h.configuration)
	session.Color.IsTerminal = isPty

	switch {
	case s.RawCommand() != "":
		session.Terminal = repl.NewReaderTerminal(s)
		session.Start.Source = "ssh-exec"
		return h.exec(s, session)

	case !isPty:
		session.Terminal = repl.NewReaderTerminal(s)

	default:
		term, err := newPtyTerminal(s, pty, winch)
		if err != nil {
			s.Exit(1)
			return err
		}
		defer term.Close()

		session.Terminal = term
		session.Stdout = term.Stdout()
		session.Stderr = term.Stderr()
		session.FinalNewline = true
	}

	if err := session.Run(); err != nil {
		s.Exit(1)
		return err
	}
	return s.Exit(0)
}

// exec handles `ssh host LINE`. The exit status is 1 if the line didn't parse.
func (h *Server) exec(s ssh.Session, session *repl.Session) error {
	if err := session.RunLine(s.RawCommand()); err != nil {
		s.Exit(1)
		return err
	}
	if session.Failures() > 0 {
		return s.Exit(1)
	}
	return s.Exit(0)
}

// newPtyTerminal runs readline over the channel. The client's terminal is
// already raw so the local mode switches are skipped.
func newPtyTerminal(s ssh.Session, pty ssh.Pty, winch <-chan ssh.Window) (*repl.ReadlineTerminal, error) {
	var mu sync.Mutex
	windowWidth := pty.Window.Width
	go func() {
		for window := range winch {
			mu.Lock()
			windowWidth = window.Width
			mu.Unlock()
		}
	}()

	return repl.NewReadlineTerminal(&readline.Config{
		Stdin:  readline.NewCancelableStdin(s),
		Stdout: s,
		Stderr: s.Stderr(),
		FuncGetWidth: func() int {
			mu.Lock()
			defer mu.Unlock()
			return windowWidth
		},
		FuncIsTerminal: func() bool { return true },
		FuncMakeRaw:    func() error { return nil },
		FuncExitRaw:    func() error { return nil },
	})
}

func (h *Server) ListenAndServe() error {
	log.Printf("- Starting SSH server on %s\n", h.sshServer.Addr)
	return h.sshServer.ListenAndServe()
}

// Serve accepts connections on l until the server is shut down.
func (h *Server) Serve(l net.Listener) error {
	return h.sshServer.Serve(l)
}

func (h *Server) Shutdown(ctx context.Context) error {
	return h.sshServer.Shutdown(ctx)
}
