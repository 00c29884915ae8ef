package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/xor-shift/lanerand/common"
	"github.com/xor-shift/lanerand/lanes"
	"log"
	"os"
	"time"
)

var (
	app    *iris.Application
	logger zerolog.Logger
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}

	logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("app", "producer").Logger()

	app = iris.New()
}

func main() {
	var err error

	var amqpConn *amqp.Connection
	var amqpChan *amqp.Channel

	if amqpConn, err = amqp.Dial(os.Getenv("AMQP_URL")); err != nil {
		logger.Fatal().Err(err).Msg("dialing amqp failed")
	}

	if amqpChan, err = amqpConn.Channel(); err != nil {
		logger.Fatal().Err(err).Msg("establishing an amqp channel failed")
	}

	defer amqpChan.Close()

	if err = amqpChan.ExchangeDeclare(
		common.ReportExchange, // name
		"fanout",              // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	); err != nil {
		logger.Fatal().Err(err).Msg("declaring the report exchange failed")
	}

	publish := func(report common.AMQPReport) error {
		var marshalledReport bytes.Buffer
		encoder := gob.NewEncoder(&marshalledReport)
		if err := encoder.Encode(report); err != nil {
			return err
		}

		return amqpChan.Publish(
			common.ReportExchange,
			"",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/octet-stream",
				Body:        marshalledReport.Bytes(),
			})
	}

	app.Post("/job", func(ctx iris.Context) {
		body, err := ctx.GetBody()
		if err != nil {
			logger.Error().Err(err).Msg("reading a job body failed")
			return
		}

		jobs, err := common.ParseJobs[common.MomentsSpec](body)
		if err != nil {
			logger.Error().Err(err).Msg("parsing a job body failed")

			ctx.StatusCode(iris.StatusBadRequest)
			_, _ = ctx.Text("+JOB_FAIL %s", err)
			return
		}

		for _, job := range jobs {
			report, err := lanes.Run(job.Spec.(common.MomentsSpec))
			if err != nil {
				logger.Error().Err(err).Str("job", job.Name).Msg("running a job failed")

				ctx.StatusCode(iris.StatusBadRequest)
				_, _ = ctx.Text("+JOB_FAIL %s", err)
				return
			}

			report.Job = job.JobHeader

			runID := fmt.Sprintf("%s-%d", job.Name, time.Now().Unix())

			if err = publish(common.AMQPReport{
				RunID:  runID,
				Report: report,
			}); err != nil {
				logger.Error().Err(err).Str("runId", runID).Msg("publishing a report failed")

				ctx.StatusCode(iris.StatusInternalServerError)
				_, _ = ctx.Text("+JOB_FAIL %s", err)
				return
			}

			logger.Info().
				Str("runId", runID).
				Uint32("lanes", report.Spec.Lanes).
				Int("draws", report.Spec.Draws).
				Int64("elapsedMs", report.ElapsedMillis).
				Float64("mean", report.Merged.Mean).
				Msg("published a run report")

			_, _ = ctx.Text("+JOB_OK %s\n", runID)
		}
	})

	if err := app.Listen(":8080"); err != nil {
		log.Fatalln(err)
	}
}
