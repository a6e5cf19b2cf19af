package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qrforge/qrforge/pkg/verify"
)

// verifyCommand creates the verify command for decoding existing images.
func (c *CLI) verifyCommand() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "verify <image.png>",
		Short: "Decode a QR code image and print its payload",
		Long: `Decode a QR code image and print its payload.

With --expect the decoded payload is compared to the given value and the
command exits non-zero on a mismatch, which makes it usable as a scripted
check after generation.`,
		Example: `  qrforge verify qr_example-com_20260825_143201.png
  qrforge verify out.png --expect https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(args[0], expect)
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "fail unless the decoded payload equals this value")

	return cmd
}

// runVerify decodes the image and optionally checks the payload.
func (c *CLI) runVerify(path, expect string) error {
	got, err := verify.DecodeFile(path)
	if err != nil {
		printError("decode failed: %v", err)
		return err
	}

	printSuccess("QR code decoded")
	printKeyValue("payload", got)

	if expect != "" && got != expect {
		printError("payload mismatch: expected %q", expect)
		return fmt.Errorf("decoded payload %q does not match %q", got, expect)
	}
	return nil
}
