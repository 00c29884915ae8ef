package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/xor-shift/lanerand/common"
	"github.com/xor-shift/lanerand/util"
	"log"
	"os"
)

const (
	insertQuery = "" +
		"INSERT INTO lane_reports (run_id, job_name, submitted_time" +
		", generator, dist, prec" +
		", lane, draws, mean_value, variance_value, min_value, max_value" +
		", counter_after" +
		") VALUES (?, ?, FROM_UNIXTIME(?), " +
		"?, ?, ?, " +
		"?, ?, ?, ?, ?, ?, " +
		"?)"
)

var logger zerolog.Logger

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}

	logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("app", "consumer_db").Logger()
}

func main() {
	var err error

	var amqpConn *amqp.Connection
	var amqpChan *amqp.Channel
	var amqpQueue amqp.Queue
	var amqpConsumer <-chan amqp.Delivery
	var db *sql.DB

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

	if amqpQueue, err = amqpChan.QueueDeclare(
		"lane_report_queue_db", // name
		false,                  // durable
		false,                  // delete when unused
		true,                   // exclusive
		false,                  // no-wait
		nil,                    // arguments
	); err != nil {
		logger.Fatal().Err(err).Msg("declaring the report queue failed")
	}

	if err = amqpChan.QueueBind(
		amqpQueue.Name,        // queue name
		"",                    // routing key
		common.ReportExchange, // exchange
		false,
		nil,
	); err != nil {
		logger.Fatal().Err(err).Msg("binding the report queue failed")
	}

	if amqpConsumer, err = amqpChan.Consume(
		amqpQueue.Name, // queue
		"",             // consumer
		true,           // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	); err != nil {
		logger.Fatal().Err(err).Msg("consuming the report queue failed")
	}

	dbConfig := mysql.Config{
		User:                 os.Getenv("DB_USER"),
		Passwd:               os.Getenv("DB_PASSWORD"),
		Addr:                 os.Getenv("DB_ADDRESS"),
		DBName:               os.Getenv("DB_NAME"),
		Collation:            "utf8mb4_general_ci",
		Net:                  "tcp",
		AllowNativePasswords: true,
	}

	if db, err = sql.Open("mysql", dbConfig.FormatDSN()); err != nil {
		logger.Fatal().Err(err).Msg("opening the db failed")
	}

	processReport := func(amqpReport common.AMQPReport) error {
		tx, err := db.BeginTx(context.TODO(), nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var stmt *sql.Stmt
		if stmt, err = tx.Prepare(insertQuery); err != nil {
			return err
		}
		defer stmt.Close()

		report := amqpReport.Report

		for _, lane := range report.Lanes {
			if _, err = stmt.Exec(
				amqpReport.RunID, report.Job.Name, report.Job.Submitted,
				report.Spec.Generator, report.Spec.Distribution, report.Spec.Precision,
				lane.Lane, lane.Draws, lane.Mean, lane.Variance, lane.Min, lane.Max,
				util.ArrayToString(lane.CounterAfter[:]),
			); err != nil {
				return err
			}
		}

		return tx.Commit()
	}

	for delivery := range amqpConsumer {
		buffer := bytes.NewBuffer(delivery.Body)
		decoder := gob.NewDecoder(buffer)
		var report common.AMQPReport
		if err := decoder.Decode(&report); err != nil {
			logger.Error().Err(err).Msg("decoding a report with gob failed")
			continue
		}

		if err := processReport(report); err != nil {
			logger.Error().Err(err).Str("runId", report.RunID).Msg("writing a report to the db failed")
			continue
		}

		logger.Info().
			Str("runId", report.RunID).
			Int("lanes", len(report.Report.Lanes)).
			Msg("stored a run report")
	}
}
