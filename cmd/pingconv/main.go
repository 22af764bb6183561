package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	pingconv "github.com/sixy6e/pingconv"
	"github.com/sixy6e/pingconv/search"
)

func low2hum(inputFile, outputStem string) error {
	log.Println("Processing Vendor-L:", inputFile)

	err := pingconv.Low2Hum(pingconv.Low2HumOptions{
		InputFile:  inputFile,
		OutputStem: outputStem,
	})
	if err != nil {
		return err
	}

	log.Println("Finished Vendor-L:", inputFile)
	return nil
}

func low2normalized(inputFile, outDir string, exportUnknown bool) error {
	log.Println("Processing Vendor-L:", inputFile)

	err := pingconv.Low2Normalized(pingconv.Low2NormalizedOptions{
		InputFile:     inputFile,
		OutDir:        outDir,
		ExportUnknown: exportUnknown,
	})
	if err != nil {
		return err
	}

	log.Println("Finished Vendor-L:", inputFile)
	return nil
}

func hum2normalized(inputFile, outDir string, chunkSize int, temperatureC float64, exportUnknown bool) error {
	log.Println("Processing Vendor-H:", inputFile)

	err := pingconv.Hum2Normalized(pingconv.Hum2NormalizedOptions{
		InputFile:     inputFile,
		OutDir:        outDir,
		ChunkSize:     chunkSize,
		TemperatureC:  temperatureC,
		ExportUnknown: exportUnknown,
	})
	if err != nil {
		return err
	}

	log.Println("Finished Vendor-H:", inputFile)
	return nil
}

// convertList is responsible for submitting a list of files to a
// processing pool that converts each one independently, using
// 2*n_CPUs workers (mirrors the teacher's convert_gsf_list pool shape).
func convertList(uri, pattern string, convert func(string) error) error {
	log.Println("Searching:", uri)
	items, err := search.FindSonarLogs(uri, pattern)
	if err != nil {
		return err
	}
	log.Println("Number of files to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		item := name
		pool.Submit(func() {
			if err := convert(item); err != nil {
				log.Println("error converting", item, ":", err)
			}
		})
	}

	return nil
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "low2hum",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-file", Usage: "Path to a Vendor-L recording."},
					&cli.StringFlag{Name: "output-stem", Usage: "Output path prefix for the .DAT file and SON/IDX directory."},
				},
				Action: func(cCtx *cli.Context) error {
					return low2hum(cCtx.String("input-file"), cCtx.String("output-stem"))
				},
			},
			{
				Name: "low2normalized",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-file", Usage: "Path to a Vendor-L recording."},
					&cli.StringFlag{Name: "out-dir", Usage: "Output directory for per-beam CSVs."},
					&cli.BoolFlag{Name: "export-unknown", Usage: "Include unknown_* columns in the CSV output."},
				},
				Action: func(cCtx *cli.Context) error {
					return low2normalized(cCtx.String("input-file"), cCtx.String("out-dir"), cCtx.Bool("export-unknown"))
				},
			},
			{
				Name: "hum2normalized",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-file", Usage: "Path to a Vendor-H recording's .DAT file."},
					&cli.StringFlag{Name: "out-dir", Usage: "Output directory for per-beam CSVs."},
					&cli.IntFlag{Name: "chunk-size", Usage: "Row chunk size for downstream processing."},
					&cli.Float64Flag{Name: "temperature-c", Usage: "Water temperature in Celsius, for downstream processing."},
					&cli.BoolFlag{Name: "export-unknown", Usage: "Include unknown_* columns in the CSV output."},
				},
				Action: func(cCtx *cli.Context) error {
					return hum2normalized(
						cCtx.String("input-file"), cCtx.String("out-dir"),
						cCtx.Int("chunk-size"), cCtx.Float64("temperature-c"),
						cCtx.Bool("export-unknown"),
					)
				},
			},
			{
				Name: "low2hum-trawl",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Usage: "Directory to search for Vendor-L recordings."},
					&cli.StringFlag{Name: "pattern", Value: "*.sl2", Usage: "Glob pattern matched against each file's basename."},
				},
				Action: func(cCtx *cli.Context) error {
					uri := cCtx.String("uri")
					return convertList(uri, cCtx.String("pattern"), func(item string) error {
						return low2hum(item, item[:len(item)-len(".sl2")])
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
