package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipilot/clipilot/internal/output"
	"github.com/clipilot/clipilot/internal/platform"
)

// ClipboardReadResult is the output of `clipboard read`.
type ClipboardReadResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	Text   string `yaml:"text"   json:"text"`
}

// ClipboardWriteResult is the output of `clipboard write` and
// `clipboard clear`.
type ClipboardWriteResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
}

// ClipboardVerifyResult is the output of `clipboard verify`.
type ClipboardVerifyResult struct {
	OK        bool   `yaml:"ok"         json:"ok"`
	Action    string `yaml:"action"     json:"action"`
	Length    int    `yaml:"length"     json:"length"`
	MinLength int    `yaml:"min_length" json:"min_length"`
}

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read, write, clear, or verify the system clipboard",
}

var clipboardReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current clipboard text",
	RunE:  runClipboardRead,
}

var clipboardWriteCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write text to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClipboardWrite,
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	RunE:  runClipboardClear,
}

var clipboardVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the clipboard holds at least the minimum payload length",
	Long: `Re-read the clipboard and check its length against the verification
threshold. This is the same check the automation session runs after a
paste; content equality is deliberately not compared.`,
	RunE: runClipboardVerify,
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.AddCommand(clipboardReadCmd)
	clipboardCmd.AddCommand(clipboardWriteCmd)
	clipboardCmd.AddCommand(clipboardClearCmd)
	clipboardCmd.AddCommand(clipboardVerifyCmd)

	clipboardWriteCmd.Flags().String("text", "", "Text to write to the clipboard")
	clipboardVerifyCmd.Flags().Int("min-length", 0, "Minimum length (default from config)")
}

func runClipboardRead(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	text, err := provider.Clipboard.GetText()
	if err != nil {
		return err
	}
	return output.Print(ClipboardReadResult{
		OK:     true,
		Action: "clipboard-read",
		Text:   text,
	})
}

func runClipboardWrite(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	var text string
	if len(args) > 0 {
		text = args[0]
	}
	if flagText, _ := cmd.Flags().GetString("text"); flagText != "" {
		text = flagText
	}
	if text == "" {
		return fmt.Errorf("specify text as a positional argument or --text flag")
	}

	if err := provider.Clipboard.SetText(text); err != nil {
		return err
	}
	return output.Print(ClipboardWriteResult{
		OK:     true,
		Action: "clipboard-write",
	})
}

func runClipboardClear(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if err := provider.Clipboard.Clear(); err != nil {
		return err
	}
	return output.Print(ClipboardWriteResult{
		OK:     true,
		Action: "clipboard-clear",
	})
}

func runClipboardVerify(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	minLen, _ := cmd.Flags().GetInt("min-length")
	if minLen <= 0 {
		minLen = cfg.Verify.MinLength
	}

	text, err := provider.Clipboard.GetText()
	if err != nil {
		return err
	}

	result := ClipboardVerifyResult{
		OK:        len(text) >= minLen,
		Action:    "clipboard-verify",
		Length:    len(text),
		MinLength: minLen,
	}
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("clipboard holds %d characters, need at least %d", result.Length, result.MinLength)
	}
	return nil
}
