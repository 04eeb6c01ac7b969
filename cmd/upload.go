package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uguulink/internal/history"
	"uguulink/internal/logger"
	"uguulink/internal/node"
	"uguulink/internal/uguu"
	"uguulink/internal/video"
)

var (
	flagJSONInput  bool
	flagFromOutput bool
	flagSubfolder  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [path | json | -]",
	Short: "Upload a video and print its link",
	Long: `Upload a video and print its link.

The argument is a file path by default. With --json-input it is parsed as a
JSON value the way a host would pass it: an object such as {"path": "..."},
an array such as ["clip.mp4", "subfolder"], or a string. With --from-output
the argument names a file under the output directory. Without an argument,
or with "-", the video is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: uploadRun,
}

func init() {
	uploadCmd.Flags().BoolVar(&flagJSONInput, "json-input", false, "Parse the argument as a JSON video value")
	uploadCmd.Flags().BoolVar(&flagFromOutput, "from-output", false, "Treat the argument as a filename under the output directory")
	uploadCmd.Flags().StringVarP(&flagSubfolder, "subfolder", "s", "", "Subfolder of the output directory (implies --from-output)")
}

func uploadRun(cmd *cobra.Command, args []string) error {
	input, err := videoInput(args, inputOptions{
		JSON:        flagJSONInput,
		FromOutput:  flagFromOutput || cmd.Flags().Changed("subfolder"),
		Subfolder:   flagSubfolder,
		Interactive: stdinIsTerminal(),
	})
	if err != nil {
		return err
	}

	n, closeFn, err := buildNode()
	if err != nil {
		return err
	}
	defer closeFn()

	format := cfg.RequestFormat()
	out := n.UploadVideo(cmd.Context(), input, format)

	if node.IsError(out) {
		if flagJSON {
			_ = printJSON(cmd, map[string]string{"error": out})
		}
		return outputError(out)
	}

	if flagJSON {
		return printJSON(cmd, map[string]string{"link": out, "format": format})
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleLink(out))
	return nil
}

type inputOptions struct {
	JSON        bool
	FromOutput  bool
	Subfolder   string
	Interactive bool // stdin is a terminal
}

// errNoInput is returned when no argument is given and stdin is a terminal.
var errNoInput = errors.New(`no video given: pass a path, or "-" to read from stdin`)

// videoInput builds the host-side video value from the command line.
func videoInput(args []string, opts inputOptions) (any, error) {
	if len(args) == 0 && opts.Interactive {
		return nil, errNoInput
	}
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, nil
	}
	arg := args[0]

	switch {
	case opts.JSON:
		var v any
		if err := json.Unmarshal([]byte(arg), &v); err != nil {
			return nil, fmt.Errorf("parsing --json-input: %w", err)
		}
		return v, nil
	case opts.FromOutput:
		return []any{arg, opts.Subfolder}, nil
	default:
		return arg, nil
	}
}

// buildNode wires resolver, client and history from the loaded config.
func buildNode() (*node.Node, func(), error) {
	log := logger.Default()

	tempDir, err := cfg.TempDirectory()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving temp dir: %w", err)
	}
	resolver := video.NewResolver(
		video.WithOutputDirectory(cfg),
		video.WithTempDir(tempDir),
		video.WithLogger(log.Named("resolver")),
	)

	client, err := uguu.New(cfg.Endpoint,
		uguu.WithTimeout(cfg.Timeout()),
		uguu.WithHTMLLinks(cfg.HTMLLinks),
		uguu.WithLogger(log.Named("uploader")),
	)
	if err != nil {
		return nil, nil, err
	}

	opts := []node.Option{node.WithLogger(log.Named("node"))}
	closeFn := func() {}
	if cfg.History {
		store, err := history.OpenDefault()
		if err != nil {
			log.Warn("upload history unavailable", zap.Error(err))
		} else {
			opts = append(opts, node.WithRecorder(store))
			closeFn = func() { store.Close() }
		}
	}

	return node.New(resolver, client, opts...), closeFn, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
