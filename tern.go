package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/ternterm/tern/logging"
	"github.com/ternterm/tern/vt"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"zgo.at/termfo"
	"zgo.at/termfo/caps"
)

var (
	debug    = flag.Bool("debug", false, "If true, enable DEBUG log level for verbose log output")
	initCols = flag.Int("initial_cols", vt.DEF_COLS, "Number of columns to start the terminal with")
	initRows = flag.Int("initial_rows", vt.DEF_ROWS, "Number of rows to start the terminal with")
	logfile  = flag.String("logfile", "", "If set, logs will be written to this file.")
	shell    = flag.String("shell", "", "Shell to run. Defaults to $SHELL, then /bin/sh.")
)

func pickShell() string {
	if *shell != "" {
		return *shell
	}
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}

func main() {
	flag.Parse()

	if err := logging.Setup(*logfile, *debug); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := vt.DefaultConfig()
	cfg.Rows = *initRows
	cfg.Cols = *initCols

	cmd := exec.CommandContext(ctx, pickShell())
	t, err := vt.NewTerminalWithPty(cmd, cfg, cancel)
	if err != nil {
		slog.Error("couldn't setup terminal", "err", err)
		os.Exit(1)
	}

	orig, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		slog.Error("couldn't make terminal raw", "err", err)
		os.Exit(1)
	}
	defer func(orig *term.State) {
		if err := term.Restore(int(os.Stdin.Fd()), orig); err != nil {
			slog.Error("couldn't restore terminal state", "err", err)
		}
	}(orig)

	undoAlt := maybeAltScreen()
	defer undoAlt()

	run(t)

	t.Stop()
	t.Wait()
	slog.Info("Shutting down")
}

func maybeAltScreen() func() {
	if ti, err := termfo.New(""); err == nil {
		s, ok := ti.Strings[caps.EnterCaMode]
		if ok {
			os.Stdout.Write([]byte(s))
		}

		return func() {
			s, ok := ti.Strings[caps.ExitCaMode]
			if ok {
				os.Stdout.Write([]byte(s))
			}
		}
	} else {
		slog.Warn("error determining terminfo, proceeding without", "err", err)
	}

	return func() {}
}

// run is the event loop: a single poll over stdin and the pty, with
// signals drained between rounds. Everything the terminal does happens
// from this goroutine.
func run(t *vt.Terminal) {
	sig := make(chan os.Signal, 10)
	signal.Notify(sig, syscall.SIGWINCH, syscall.SIGCHLD)

	stdinFd := int(os.Stdin.Fd())
	if err := syscall.SetNonblock(stdinFd, true); err != nil {
		slog.Error("couldn't set stdin non-blocking", "err", err)
		return
	}

	inBuf := make([]byte, 1024)

	for {
		select {
		case s := <-sig:
			switch s {
			case syscall.SIGWINCH:
				w, h, err := term.GetSize(stdinFd)
				if err != nil {
					slog.Error("couldn't get window size", "err", err)
					continue
				}
				t.Resize(h, w)
			case syscall.SIGCHLD:
				slog.Info("child exited")
				return
			}
			continue
		default:
		}

		pfds := []unix.PollFd{
			{Fd: int32(stdinFd), Events: unix.POLLIN},
			{Fd: int32(t.Fd()), Events: unix.POLLIN},
		}
		if t.NeedsWrite() {
			pfds[1].Events |= unix.POLLOUT
		}

		n, err := unix.Poll(pfds, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			slog.Error("poll failed", "err", err)
			return
		}
		if n == 0 {
			continue
		}

		if pfds[0].Revents&unix.POLLIN != 0 {
			n, err := os.Stdin.Read(inBuf)
			if err == nil && n > 0 {
				t.Key(vt.Keypress{Text: string(inBuf[:n])})
			}
		}

		if pfds[1].Revents&unix.POLLIN != 0 {
			t.OnReadable()
			if err := t.Update(os.Stdout); err != nil {
				slog.Error("couldn't render update", "err", err)
			}
		}
		if pfds[1].Revents&unix.POLLOUT != 0 {
			t.OnWritable()
		}
		if pfds[1].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			slog.Info("pty closed")
			return
		}
	}
}
