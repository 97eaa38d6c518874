package scrollback

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/creack/pty"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// envPumpRole is the sentinel the re-exec'd pump process checks at
// startup to take the pump role instead of running the ordinary
// control loop. A true fork() has no Go equivalent mid-program (the
// runtime doesn't survive it); a self-re-exec of the current binary
// with this marker set is the idiomatic substitute.
const envPumpRole = "_YO_PUMP_CHILD"

// envRingCapacity/envRingLockPath let the re-exec'd pump size the shared
// scrollback region and find its advisory lock; the region's own file
// descriptor is inherited directly via ExtraFiles (see ringFD/masterFD).
const (
	envRingCapacity = "_YO_RING_CAPACITY"
	envRingLockPath = "_YO_RING_LOCK"
)

// ExtraFiles order: index 0 becomes fd 3 (PTY master), index 1 becomes
// fd 4 (the shared scrollback region) in the re-exec'd pump process.
const (
	masterFD uintptr = 3
	ringFD   uintptr = 4
)

// Proxy owns the PTY proxy lifecycle for the shell process: the slave
// fds it now runs attached to, and the ring it can read scrollback from.
type Proxy struct {
	Ring    *Ring
	region  *sharedRegion
	pumpPID int
	slave   *os.File
}

// IsPumpChild reports whether the current process was re-exec'd to take
// the pump role, for main() to branch on before anything else runs.
func IsPumpChild() bool {
	return os.Getenv(envPumpRole) == "1"
}

// Enable splits the current process into a pump (keeping the real
// terminal) and a shell (this process, now attached to a PTY slave). On
// any failure, or when stdin/stdout aren't both terminals, it degrades
// silently: callers get a disabled Proxy whose Ring reads as empty
// rather than an error.
func Enable(capacityBytes int) (*Proxy, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return disabledProxy(capacityBytes), nil
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return disabledProxy(capacityBytes), nil
	}

	lockPath := filepath.Join(os.TempDir(), fmt.Sprintf("yo-scrollback-%d.lock", os.Getpid()))
	region, err := createSharedRegion(capacityBytes, lockPath)
	if err != nil {
		return disabledProxy(capacityBytes), nil
	}

	master, slave, err := pty.Open()
	if err != nil {
		region.Close()
		return disabledProxy(capacityBytes), nil
	}
	pty.Setsize(master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})

	exe, err := os.Executable()
	if err != nil {
		exe = "/proc/self/exe"
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(),
		envPumpRole+"=1",
		fmt.Sprintf("%s=%d", envRingCapacity, capacityBytes),
		fmt.Sprintf("%s=%s", envRingLockPath, lockPath),
	)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{master, region.file}
	if err := cmd.Start(); err != nil {
		master.Close()
		slave.Close()
		region.Close()
		return disabledProxy(capacityBytes), nil
	}
	master.Close() // the pump owns the master now; this process keeps only the slave.

	if err := becomeShell(slave); err != nil {
		cmd.Process.Kill()
		region.Close()
		return disabledProxy(capacityBytes), nil
	}

	return &Proxy{
		Ring:    region.ring(capacityBytes),
		region:  region,
		pumpPID: cmd.Process.Pid,
		slave:   slave,
	}, nil
}

// becomeShell makes this process a new session leader, acquires slave
// as its controlling terminal, and redirects its own stdio to it —
// the child side of the original fork, realized in-place since this
// process never needed to re-exec (only the pump did).
func becomeShell(slave *os.File) error {
	if _, err := syscall.Setsid(); err != nil {
		return fmt.Errorf("setsid: %w", err)
	}
	if err := ioctlSetCtty(slave.Fd()); err != nil {
		return fmt.Errorf("acquire controlling terminal: %w", err)
	}
	for _, fd := range []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd()} {
		if err := syscall.Dup2(int(slave.Fd()), int(fd)); err != nil {
			return fmt.Errorf("redirect stdio to pty slave: %w", err)
		}
	}
	return nil
}

func disabledProxy(capacityBytes int) *Proxy {
	return &Proxy{Ring: NewInMemory(capacityBytes)}
}

// NewDisabledProxy returns a degraded Proxy whose Ring always reads
// empty, for callers that need a valid handle before Enable is called.
func NewDisabledProxy(capacityBytes int) *Proxy {
	return disabledProxy(capacityBytes)
}

// Enabled reports whether the proxy actually split into pump/shell, as
// opposed to degrading to an in-memory no-op ring.
func (p *Proxy) Enabled() bool {
	return p.region != nil
}

// Disable tears down the proxy: closes the shared region and the
// in-process handles. The pump process exits on its own once this
// process's slave side closes and it observes EOF.
func (p *Proxy) Disable() {
	if p.slave != nil {
		p.slave.Close()
	}
	if p.region != nil {
		p.region.Close()
	}
}

// RunPump is the pump process's entry point: it proxies bytes between
// the real terminal and the PTY master, mirrors master output into the
// ring, and forwards signals. Called from main() when IsPumpChild() is
// true. It returns 0 once reading the master ends (1 if the shared region
// cannot be mapped); the shell's exit status is not propagated.
func RunPump() int {
	var capacity int
	fmt.Sscanf(os.Getenv(envRingCapacity), "%d", &capacity)

	region, err := openSharedRegion(ringFD, capacity, os.Getenv(envRingLockPath))
	if err != nil {
		return 1
	}
	defer region.Close()
	ring := region.ring(capacity)

	master := os.NewFile(masterFD, "pty-master")
	defer master.Close()

	restore, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err == nil {
		defer term.Restore(int(os.Stdin.Fd()), restore)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT,
		syscall.SIGQUIT, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGWINCH)
	go forwardSignals(sigCh, master)

	done := make(chan struct{})
	go func() {
		defer close(done)
		io.Copy(teeWriter{os.Stdout, ring}, master)
	}()
	go io.Copy(master, os.Stdin)

	<-done
	return 0
}

// teeWriter writes every chunk to stdout in full and mirrors it into the
// ring.
type teeWriter struct {
	out  io.Writer
	ring *Ring
}

func (t teeWriter) Write(p []byte) (int, error) {
	t.ring.Append(p)
	return t.out.Write(p)
}

// forwardSignals relays HUP/TERM/INT/QUIT/USR1/USR2 to the shell process
// (this pump's parent, since the shell never re-exec'd — only the pump
// did) and additionally propagates WINCH's new window size to the PTY
// master before forwarding it.
func forwardSignals(sigCh <-chan os.Signal, master *os.File) {
	ppid := os.Getppid()
	for sig := range sigCh {
		if sig == syscall.SIGWINCH {
			if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				pty.Setsize(master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
			}
		}
		if s, ok := sig.(syscall.Signal); ok {
			syscall.Kill(ppid, s)
		}
	}
}
