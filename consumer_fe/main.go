package main

import (
	"encoding/json"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/streadway/amqp"
	"github.com/xor-shift/lanerand/common"
	"log"
	"net/http"
	"os"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	var err error

	var consumer *common.AMQPConsumer
	var app *iris.Application

	var lastReport common.AMQPReport

	if consumer, err = common.NewAMQPConsumer(
		"lane_report_queue_fe",
		"consumer_fe_consumer",
		func(delivery amqp.Delivery) error {
			var amqpReport common.AMQPReport

			if amqpReport, err = common.ParseAMQPReport(&delivery); err != nil {
				log.Printf("error decoding a report with gob: %s", err)
				return err
			}

			report := amqpReport.Report

			log.Printf("%s @ %d: %d draws, mean %f, var %f (%f/%f)",
				amqpReport.RunID,
				report.Job.Submitted,
				report.Merged.Draws,
				report.Merged.Mean,
				report.Merged.Variance,
				report.Merged.Min,
				report.Merged.Max)

			lastReport = amqpReport

			return nil
		}); err != nil {
		log.Fatalln(err)
	}

	if err = consumer.Start(); err != nil {
		log.Fatalln(err)
	}

	app = iris.New()

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/data", func(ctx iris.Context) {
		var jsonData []byte
		jsonData, err = json.Marshal(lastReport)

		if err != nil {
			ctx.StatusCode(http.StatusInternalServerError)
			ctx.Text("internal error: %s", err)
			return
		}

		ctx.ContentType("application/json")
		_, _ = ctx.Text(string(jsonData))
	})

	if err = app.Listen(fmt.Sprintf(":%s", os.Getenv("CONSUMER_FE_PORT"))); err != nil {
		log.Fatalln(err)
	}
}
