package main

import (
	"encoding/json"
	"errors"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/xor-shift/lanerand/common"
	"github.com/xor-shift/lanerand/lanes"
	"github.com/xor-shift/lanerand/rng"
	"github.com/xor-shift/lanerand/util"
	"log"
	"strconv"
)

var (
	app *iris.Application
)

const maxStreamBlocks = 4096

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}

	app = iris.New()
}

func streamSpecFromQuery(ctx iris.Context) (spec common.StreamSpec, err error) {
	spec.Generator = ctx.URLParamDefault("gen", "")
	spec.Distribution = ctx.URLParamDefault("dist", "uniform")
	spec.Precision = ctx.URLParamDefault("prec", "f64")

	if seedText := ctx.URLParamDefault("seed", ""); seedText != "" {
		if spec.Seed, err = util.ParseWords(seedText, 2); err != nil {
			return
		}
	} else if run := ctx.URLParamDefault("run", ""); run != "" {
		words := util.SeedWords(run)
		spec.Seed = words[:]
	} else {
		err = errors.New("a stream needs either a run name or a seed")
		return
	}

	if ctrText := ctx.URLParamDefault("ctr", ""); ctrText != "" {
		if spec.Counter, err = util.ParseWords(ctrText, 4); err != nil {
			return
		}
	}

	var lane uint64
	if lane, err = strconv.ParseUint(ctx.URLParamDefault("lane", "0"), 10, 32); err != nil {
		return
	}
	spec.Lane = uint32(lane)

	if spec.Count, err = strconv.Atoi(ctx.URLParamDefault("n", "16")); err != nil {
		return
	}

	if spec.Count > maxStreamBlocks {
		spec.Count = maxStreamBlocks
	}

	if spec.Skip, err = strconv.ParseUint(ctx.URLParamDefault("skip", "0"), 10, 64); err != nil {
		return
	}

	return
}

func main() {
	app.Get("/stream", func(ctx iris.Context) {
		spec, err := streamSpecFromQuery(ctx)
		if err != nil {
			app.Logger().Printf("/stream error (query): %s", err)

			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+STREAM_FAIL %s", err)
			return
		}

		head, err := lanes.Head(spec)
		if err != nil {
			app.Logger().Printf("/stream error (Head): %s", err)

			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+STREAM_FAIL %s", err)
			return
		}

		jsonData, err := json.Marshal(head)
		if err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			_, _ = ctx.Text("internal error: %s", err)
			return
		}

		ctx.ContentType("application/json")
		_, _ = ctx.Text(string(jsonData))
	})

	app.Post("/job", func(ctx iris.Context) {
		app.Logger().Printf("job request from %s", ctx.RemoteAddr())

		body, err := ctx.GetBody()
		if err != nil {
			app.Logger().Printf("/job error (body): %s", err)
			return
		}

		jobs, err := common.ParseJobs[common.MomentsSpec](body)
		if err != nil {
			app.Logger().Printf("/job error (ParseJobs): %s", err)

			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+JOB_FAIL %s", err)
			return
		}

		reports := make([]common.RunReport, 0, len(jobs))
		for _, job := range jobs {
			report, err := lanes.Run(job.Spec.(common.MomentsSpec))
			if err != nil {
				app.Logger().Printf("/job error (Run): %s", err)

				ctx.StatusCode(iris.StatusBadRequest)
				_, _ = ctx.Text("+JOB_FAIL %s", err)
				return
			}

			report.Job = job.JobHeader

			app.Logger().Printf("job %s: %d lanes, %d draws each, took %dms",
				job.Name,
				report.Spec.Lanes,
				report.Spec.Draws,
				report.ElapsedMillis)

			reports = append(reports, report)
		}

		jsonData, err := json.Marshal(reports)
		if err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			_, _ = ctx.Text("internal error: %s", err)
			return
		}

		ctx.ContentType("application/json")
		_, _ = ctx.Text(string(jsonData))
	})

	app.Get("/generators", func(ctx iris.Context) {
		jsonData, _ := json.Marshal(rng.Names())

		ctx.ContentType("application/json")
		_, _ = ctx.Text(string(jsonData))
	})

	if err := app.Listen(":8080"); err != nil {
		log.Fatalln(err)
	}
}
