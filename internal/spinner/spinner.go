package spinner

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/eduardofuncao/dbkit/internal/styles"
)

var stages = []string{" ", ".", "o", "O", "@", "*"}

const tick = 100 * time.Millisecond

// Wait draws a pulsing spinner with the elapsed time on w until done is
// closed, then clears the line.
func Wait(w io.Writer, done <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(w, "\r%s %.2fs", styles.Success.Render(stages[i%len(stages)]), time.Since(start).Seconds())
		select {
		case <-done:
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Run calls fn while a spinner runs on stderr. The spinner is skipped when
// stderr is not a terminal.
func Run(fn func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		fn()
		return
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		Wait(os.Stderr, done)
		close(finished)
	}()
	fn()
	close(done)
	<-finished
}
