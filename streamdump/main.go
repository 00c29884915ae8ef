package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/xor-shift/lanerand/common"
	"github.com/xor-shift/lanerand/lanes"
	"github.com/xor-shift/lanerand/util"
	"log"
	"os"
	"strconv"
	"text/template"
)

func main() {
	var err error

	args := struct {
		Run                string `name:"run" short:"r" xor:"seed" required:"" help:"Run name to derive the seed from"`
		Seed               string `name:"seed" short:"s" xor:"seed" required:"" help:"Seed as 16 hex characters"`
		Counter            string `name:"ctr" help:"Starting counter as 32 hex characters"`
		Generator          string `name:"gen" short:"g" enum:"threefry4x32,philox4x32" default:"threefry4x32" help:"Counter permutation to draw with"`
		Lanes              uint32 `name:"lanes" short:"l" default:"1" help:"Number of lanes to dump"`
		Blocks             int    `name:"blocks" short:"n" default:"256" help:"Number of 4-wide blocks per lane"`
		Skip               uint64 `name:"skip" help:"Blocks to skip before dumping"`
		Mode               string `name:"mode" short:"m" enum:"uniform,normal" default:"uniform" help:"Distribution to draw"`
		Precision          string `name:"prec" short:"p" enum:"f32,f64" default:"f64" help:"Draw precision"`
		Format             string `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
		Out                string `name:"out" short:"o" default:"stream_{{.Lane}}.{{.Format}}" help:"File to output to (templated)"`
		ExportColumnTitles bool   `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include column titles for CSV exports"`
	}{}

	_ = kong.Parse(&args)

	var seed []uint32
	if args.Seed != "" {
		if seed, err = util.ParseWords(args.Seed, 2); err != nil {
			log.Fatalf("error while parsing the seed: %s", err)
		}
	} else {
		words := util.SeedWords(args.Run)
		seed = words[:]
	}

	var counter []uint32
	if args.Counter != "" {
		if counter, err = util.ParseWords(args.Counter, 4); err != nil {
			log.Fatalf("error while parsing the counter: %s", err)
		}
	}

	var outFileNameTemplate *template.Template
	if outFileNameTemplate, err = template.New("").Parse(args.Out); err != nil {
		log.Fatalf("error while creating the output filename template: %s", err)
	}

	for lane := uint32(0); lane < args.Lanes; lane++ {
		var head common.StreamHead
		if head, err = lanes.Head(common.StreamSpec{
			Seed:         seed,
			Counter:      counter,
			Generator:    args.Generator,
			Lane:         lane,
			Count:        args.Blocks,
			Skip:         args.Skip,
			Distribution: args.Mode,
			Precision:    args.Precision,
		}); err != nil {
			log.Fatalf("error while drawing lane %d: %s", lane, err)
		}

		outFileNameBuf := bytes.Buffer{}

		templateArguments := struct {
			Lane   uint32
			Format string
		}{
			Lane:   lane,
			Format: args.Format,
		}

		if err = outFileNameTemplate.Execute(&outFileNameBuf, templateArguments); err != nil {
			log.Fatalf("error while executing the output filename template: %s", err)
		}

		outFileName := outFileNameBuf.String()

		var outFile *os.File
		if outFile, err = os.Create(outFileName); err != nil {
			log.Fatalf("error while creating the output file \"%s\": %s", outFileName, err)
		}

		if args.Format == "json" {
			var jsonData []byte
			if jsonData, err = json.Marshal(head); err != nil {
				log.Fatalf("error while marshalling lane %d: %s", lane, err)
			}

			_, _ = outFile.Write(jsonData)
			_ = outFile.Close()
			continue
		}

		csvWriter := csv.NewWriter(outFile)

		if args.ExportColumnTitles {
			columns := []string{"Block"}

			for i := 0; i < 4; i++ {
				columns = append(columns, fmt.Sprintf("Word %d", i))
			}

			_ = csvWriter.Write(columns)
		}

		for i, block := range head.Values {
			rowStrings := []string{strconv.FormatUint(args.Skip+uint64(i), 10)}

			for _, v := range block {
				rowStrings = append(rowStrings, strconv.FormatFloat(v, 'g', -1, 64))
			}

			csvWriter.Write(rowStrings)
		}

		csvWriter.Flush()
		_ = outFile.Close()
	}
}
