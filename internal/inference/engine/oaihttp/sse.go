package oaihttp

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var errStreamDone = errors.New("stream done")

// streamSSE dispatches one onEvent call per non-empty data line, so upstreams that omit the
// blank line between frames still parse. Returning errStreamDone from onEvent ends the
// stream cleanly.
func streamSSE(r io.Reader, onEvent func(event string, data string) error) error {
	br := bufio.NewReader(r)
	var eventName string

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			eventName = ""
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data != "" && onEvent != nil {
				if ferr := onEvent(eventName, data); ferr != nil {
					return doneIsNil(ferr)
				}
			}
		}

		if eof {
			return nil
		}
	}
}

func doneIsNil(err error) error {
	if errors.Is(err, errStreamDone) {
		return nil
	}
	return err
}
