package host

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/sensorlink/pkg/msgs"
)

// Hint lists the accepted commands.
const Hint = "Try Ping, WhoAreYou, Trigger, SetConfig {samples: N}, GetConfig or Reset"

var (
	// ErrUnknownCommand indicates the command name is not a host message.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnexpectedArgs indicates arguments are given to a command taking none.
	ErrUnexpectedArgs = errors.New("unexpected arguments")
	// ErrMissingConfig indicates SetConfig lacks the configuration.
	ErrMissingConfig = errors.New("configuration required, e.g. {samples: 42}")
)

// Commands maps command names to host messages.
var Commands = map[string]msgs.HostMessage{
	"Trigger":   (*msgs.Trigger)(nil),
	"WhoAreYou": (*msgs.WhoAreYou)(nil),
	"Ping":      (*msgs.Ping)(nil),
	"SetConfig": (*msgs.SetConfig)(nil),
	"GetConfig": (*msgs.GetConfig)(nil),
	"Reset":     (*msgs.Reset)(nil),
}

// ParseCommand parses one line of operator input. The line is the
// case-sensitive message name, optionally followed by a colon, and for
// SetConfig an inline mapping like {samples: 42}.
func ParseCommand(line string) (msgs.HostMessage, error) {
	line = strings.TrimSpace(line)
	name, rest := line, ""
	if i := strings.IndexAny(line, " \t:{"); i >= 0 {
		name, rest = line[:i], line[i:]
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, ":") {
		rest = strings.TrimSpace(rest[1:])
	}
	proto, ok := Commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	msg := proto.NewMessage().(msgs.HostMessage)
	if m, ok := msg.(*msgs.SetConfig); ok {
		if err := parseConfig(rest, &m.ConfigPayload); err != nil {
			return nil, err
		}
		return m, nil
	}
	if rest != "" {
		return nil, fmt.Errorf("%w: %s %s", ErrUnexpectedArgs, name, rest)
	}
	return msg, nil
}

func parseConfig(text string, config *msgs.ConfigPayload) error {
	if text == "" {
		return ErrMissingConfig
	}
	var parsed struct {
		Samples *uint32 `yaml:"samples"`
	}
	dec := yaml.NewDecoder(strings.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil {
		if err == io.EOF {
			return ErrMissingConfig
		}
		return fmt.Errorf("invalid configuration %s: %w", text, err)
	}
	if parsed.Samples == nil {
		return ErrMissingConfig
	}
	config.Samples = *parsed.Samples
	return nil
}
