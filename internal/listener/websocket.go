package listener

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketListener serves the same newline-delimited JSON protocol over
// websocket text frames, one frame per message.
type WebsocketListener struct {
	port uint16
	path string
	cm   *ConnectionManager

	upgrader websocket.Upgrader
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = "/ws"
	}
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	mux := http.NewServeMux()
	mux.HandleFunc(l.path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.ErrorContext(r.Context(), "upgrading websocket connection", "error", err)
			return
		}

		wg.Add(1)
		defer wg.Done()
		defer conn.Close()

		go func() {
			<-connCtx.Done()
			conn.Close()
		}()

		l.cm.AcceptConnection(connCtx, &wsReadWriter{conn: conn})
	})

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		svr.Shutdown(shutdownCtx)
		cancelConns()
		wg.Wait()
	}()

	slog.InfoContext(ctx, "listening for websocket", "port", l.port, "path", l.path)

	err := svr.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}
	return nil
}

// wsReadWriter presents a websocket connection as an io.ReadWriteCloser.
// Each Write sends one text frame; Reads drain frames with a newline
// appended so line-scanning session code works unchanged.
type wsReadWriter struct {
	conn *websocket.Conn

	readMu  sync.Mutex
	writeMu sync.Mutex
	buf     []byte
}

func (w *wsReadWriter) Read(p []byte) (int, error) {
	w.readMu.Lock()
	defer w.readMu.Unlock()

	if len(w.buf) == 0 {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, io.EOF
		}
		w.buf = append(data, '\n')
	}
	n := copy(p, w.buf)
	w.buf = w.buf[n:]
	return n, nil
}

func (w *wsReadWriter) Write(p []byte) (int, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsReadWriter) Close() error {
	return w.conn.Close()
}
