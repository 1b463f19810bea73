package host

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/sensorlink/pkg/framework"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

const prompt = "sensor > "

// ShellInput provides ishell backed interactive input.
type ShellInput struct {
	Shell *ishell.Shell
}

// NewShellInput creates a ShellInput.
func NewShellInput() *ShellInput {
	return &ShellInput{Shell: ishell.New()}
}

// Run implements Input.
func (in *ShellInput) Run(ctx context.Context, cmds chan<- msgs.HostMessage) error {
	sh := in.Shell
	sh.SetPrompt(prompt)
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sh.AddCmd(&ishell.Cmd{
			Name: name,
			Help: commandHelp(name),
			Func: func(c *ishell.Context) {
				line := strings.Join(append([]string{c.Cmd.Name}, c.Args...), " ")
				if err := submitLine(ctx, cmds, line); err != nil {
					c.Err(err)
					c.Println(Hint)
				}
			},
		})
	}
	sh.NotFound(func(c *ishell.Context) {
		c.Printf("Invalid input: %q. %s\n", strings.Join(c.Args, " "), Hint)
	})
	return fx.RunWithContextCancel(ctx, sh.Close, func() error {
		sh.Run()
		return nil
	})
}

// Write implements io.Writer so the Bridge can present replies in the shell.
func (in *ShellInput) Write(p []byte) (int, error) {
	in.Shell.Print(string(p))
	return len(p), nil
}

func submitLine(ctx context.Context, cmds chan<- msgs.HostMessage, line string) error {
	msg, err := ParseCommand(line)
	if err != nil {
		return err
	}
	return Submit(ctx, cmds, msg)
}

func commandHelp(name string) string {
	if name == "SetConfig" {
		return fmt.Sprintf("send %s {samples: N}", name)
	}
	return "send " + name
}
