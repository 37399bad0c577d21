// cmd_detect.go - Detektions-Command
// Hauptfunktionen: newDetectCmd, DetectHandler
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linyu92/sd-webui-segment-anything/api"
	"github.com/linyu92/sd-webui-segment-anything/dino"
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect IMAGE",
		Short: "Detect objects in an image matching a text prompt",
		Args:  cobra.ExactArgs(1),
		RunE:  DetectHandler,
	}

	cmd.Flags().StringP("model", "m", dino.Models()[0].Name, "Model display name")
	cmd.Flags().StringP("prompt", "p", "", "Text prompt describing the objects (required)")
	cmd.Flags().Float32P("threshold", "t", 0.3, "Box confidence threshold")
	cmd.Flags().StringP("output", "o", "", "Write an annotated copy to this path (PNG)")
	cmd.Flags().Bool("show-index", false, "Draw box indices into the annotated copy")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

// DetectHandler - Fuehrt eine Detektion ueber den Server aus
func DetectHandler(cmd *cobra.Command, args []string) error {
	client, err := initClient()
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	threshold, _ := cmd.Flags().GetFloat32("threshold")
	output, _ := cmd.Flags().GetString("output")
	showIndex, _ := cmd.Flags().GetBool("show-index")

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	resp, err := client.Detect(cmd.Context(), &api.DetectRequest{
		Model:        model,
		Prompt:       prompt,
		Image:        imageData,
		BoxThreshold: threshold,
	})
	if err != nil {
		return err
	}

	if !resp.Available {
		return fmt.Errorf("the detection runtime is not available on the server, see the server log")
	}

	for i, box := range resp.Boxes {
		fmt.Printf("%d: (%.1f, %.1f) - (%.1f, %.1f)\n", i, box.X0, box.Y0, box.X1, box.Y1)
	}
	fmt.Printf("%d box(es) above threshold %.2f\n", len(resp.Boxes), threshold)

	if output == "" {
		return nil
	}

	drawResp, err := client.Draw(cmd.Context(), &api.DrawRequest{
		Image:     imageData,
		Boxes:     resp.Boxes,
		ShowIndex: showIndex,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, drawResp.Image, 0o644); err != nil {
		return err
	}

	fmt.Printf("annotated copy written to %s\n", output)
	return nil
}
