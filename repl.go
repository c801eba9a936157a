package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/responder"
	"github.com/Zachkp/portfolio/internal/timer"
)

// runChat is the line-oriented chat: each input line gets one reply after
// delay. It returns at EOF or when ctx is done.
func runChat(ctx context.Context, in io.Reader, out io.Writer, r *responder.Responder, delay time.Duration, greeting string) error {
	replies := make(chan chat.Entry, 1)
	sched := timer.NewSimpleTimer()
	defer sched.Stop()

	sess := chat.NewSession(r, sched,
		chat.WithDelay(delay),
		chat.WithGreeting(greeting),
		chat.WithObserver(func(e chat.Entry) {
			if e.Author == chat.AuthorResponder {
				replies <- e
			}
		}),
	)
	defer sess.Close()

	if e, ok := sess.Transcript().Last(); ok {
		fmt.Fprintf(out, "ai: %s\n", e.Text)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			fmt.Fprintln(out)
			return err
		case line = <-lines:
		}

		if !sess.Submit(line) {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case e := <-replies:
			fmt.Fprintf(out, "ai: %s\n", e.Text)
		}
	}
}
