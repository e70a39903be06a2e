package setup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// installer is one package-manager candidate: the command to probe for and
// the argv shapes to run with it. Per platform, candidates are ordered and
// the first one present on PATH wins.
type installer struct {
	cmd      string
	sudo     bool
	pre      [][]string // run before installing, best effort
	install  []string   // argv after cmd; package names appended
	tail     []string   // argv appended after package names
	packages []string
}

// installers maps GOOS values to ordered installer candidates.
var installers = map[string][]installer{
	"darwin": {
		{
			cmd:      "brew",
			install:  []string{"install"},
			packages: []string{"portaudio", "ffmpeg"},
		},
	},
	"linux": {
		{
			cmd:      "apt-get",
			sudo:     true,
			pre:      [][]string{{"apt-get", "update"}},
			install:  []string{"install", "-y"},
			packages: []string{"portaudio19-dev", "ffmpeg"},
		},
		{
			cmd:      "yum",
			sudo:     true,
			install:  []string{"install", "-y"},
			packages: []string{"portaudio-devel", "ffmpeg"},
		},
		{
			cmd:      "pacman",
			sudo:     true,
			install:  []string{"-S", "--noconfirm"},
			packages: []string{"portaudio", "ffmpeg"},
		},
	},
	"windows": {
		{
			cmd:      "choco",
			install:  []string{"install"},
			tail:     []string{"-y"},
			packages: []string{"portaudio", "ffmpeg"},
		},
		{
			cmd:      "scoop",
			install:  []string{"install"},
			packages: []string{"portaudio", "ffmpeg"},
		},
	},
}

// selectInstaller picks the first candidate for goos that exists on PATH.
func selectInstaller(goos string) (*installer, error) {
	candidates, ok := installers[goos]
	if !ok {
		return nil, fmt.Errorf("setup: unsupported operating system: %s", goos)
	}
	for i := range candidates {
		if commandExists(candidates[i].cmd) {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("setup: no supported package manager found for %s", goos)
}

// run executes the installer's pre-commands and then the install itself,
// streaming output to the terminal.
func (in *installer) run(ctx context.Context) error {
	for _, pre := range in.pre {
		_ = execStreaming(ctx, in.argv(pre))
	}

	argv := append([]string{in.cmd}, in.install...)
	argv = append(argv, in.packages...)
	argv = append(argv, in.tail...)
	if err := execStreaming(ctx, in.argv(argv)); err != nil {
		return fmt.Errorf("setup: %s install failed: %w", in.cmd, err)
	}
	return nil
}

// argv prefixes sudo on platforms whose package managers need it.
func (in *installer) argv(args []string) []string {
	if in.sudo {
		return append([]string{"sudo"}, args...)
	}
	return args
}

func execStreaming(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
