package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/api"
	"github.com/davedittrich/ocd/internal/defaults"
	"github.com/davedittrich/ocd/internal/render"
)

var (
	imagesPrompt         string
	imagesBasename       string
	imagesN              int64
	imagesSize           string
	imagesResponseFormat string
	imagesForce          bool
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Generate images from prompts",
}

// imagesCreateCmd generates images from a prompt. Inline (b64_json)
// responses are written to <basename>_<i>.png files; url responses are
// listed so they can be fetched before they expire.
var imagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one or more images from a prompt",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		d := loadedDefaults()

		if int64(len(imagesPrompt)) > d.ImagesMaxPrompt {
			return fmt.Errorf("prompt cannot exceed %d characters", d.ImagesMaxPrompt)
		}

		if imagesN < 1 || imagesN > d.ImagesMaxN {
			return fmt.Errorf("n must be between 1 and %d", d.ImagesMaxN)
		}

		if !slices.Contains(defaults.ImageSizes, imagesSize) {
			return fmt.Errorf("size must be one of %v", defaults.ImageSizes)
		}

		if !slices.Contains(defaults.ImageResponseFormats, imagesResponseFormat) {
			return fmt.Errorf("response format must be one of %v", defaults.ImageResponseFormats)
		}

		// Fail on existing files up front so no API budget is wasted
		// on images that could not be written.
		filenames := make([]string, 0, imagesN)

		if imagesResponseFormat == "b64_json" {
			for i := int64(0); i < imagesN; i++ {
				filename := fmt.Sprintf("%s_%d.png", imagesBasename, i)
				if !imagesForce {
					if _, err := os.Stat(filename); err == nil {
						return fmt.Errorf("file exists (use '--force' to over-write): %s", filename)
					}
				}

				filenames = append(filenames, filename)
			}
		}

		ctx, stop := commandContext()
		defer stop()

		images, err := newClient().CreateImages(ctx, &api.ImageRequest{
			Prompt:         imagesPrompt,
			N:              imagesN,
			Size:           imagesSize,
			ResponseFormat: imagesResponseFormat,
		})
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(images))

		for i, image := range images {
			switch {
			case image.B64JSON != "":
				if i >= len(filenames) {
					return fmt.Errorf("received more images than requested: %d", len(images))
				}

				if err = writeImageFile(filenames[i], image.B64JSON); err != nil {
					return err
				}

				rows = append(rows, []string{filenames[i]})
			case image.URL != "":
				rows = append(rows, []string{image.URL})
			default:
				return fmt.Errorf("image %d has no content", i)
			}
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, rows)
		}

		return render.List(os.Stdout, []string{"Image"}, rows)
	},
}

// writeImageFile decodes Base64 image data and writes it to a file.
func writeImageFile(filename, b64 string) error {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("decode image data: %w", err)
	}

	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	d := loadedDefaults()

	flags := imagesCreateCmd.Flags()
	flags.StringVar(&imagesPrompt, "prompt", "", "text description of the desired image(s)")
	flags.StringVar(&imagesBasename, "basename", "IMAGE", "basename of the generated image(s)")
	flags.Int64VarP(&imagesN, "number", "n", d.ImagesN, "how many images to generate")
	flags.StringVar(&imagesSize, "size", d.ImagesSize, "size of the generated image(s)")
	flags.StringVar(&imagesResponseFormat, "response-format", d.ImagesResponseFormat, "format in which the generated image(s) are returned")
	flags.BoolVar(&imagesForce, "force", false, "over-write existing files if they exist")

	_ = imagesCreateCmd.MarkFlagRequired("prompt")

	imagesCmd.AddCommand(imagesCreateCmd)
	rootCmd.AddCommand(imagesCmd)
}
