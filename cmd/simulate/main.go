// Команда simulate отправляет много одновременных записей на один и тот же слот
// и проверяет, что подтверждена ровно одна.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
)

type simConfig struct {
	BaseURL     string
	Secret      string
	DoctorID    string
	Date        string
	Time        string
	Requests    int
	Concurrency int
	Timeout     time.Duration
}

type outcome struct {
	created  atomic.Int64
	conflict atomic.Int64
	failed   atomic.Int64
}

type bookingBody struct {
	DoctorID    string `json:"doctorId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	PatientName string `json:"patientName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Reason      string `json:"reason"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func main() {
	cfg := simConfig{}
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "service base URL")
	flag.StringVar(&cfg.Secret, "secret", os.Getenv("JWT_SECRET"), "JWT secret shared with the service")
	flag.StringVar(&cfg.DoctorID, "doctor", "", "doctor id")
	flag.StringVar(&cfg.Date, "date", time.Now().AddDate(0, 0, 1).Format(domain.DateFormat), "appointment date YYYY-MM-DD")
	flag.StringVar(&cfg.Time, "time", "09:00", "appointment time HH:MM")
	flag.IntVar(&cfg.Requests, "n", 50, "number of booking requests")
	flag.IntVar(&cfg.Concurrency, "c", 50, "concurrent requests")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	log, err := logger.New("", "info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfg.DoctorID == "" || cfg.Secret == "" {
		log.Fatal("simulate: -doctor and -secret (or JWT_SECRET) are required")
	}

	log.Info("simulate: %d requests (concurrency=%d) for doctor=%s %s %s",
		cfg.Requests, cfg.Concurrency, cfg.DoctorID, cfg.Date, cfg.Time)

	client := &http.Client{Timeout: cfg.Timeout}
	var res outcome
	start := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Concurrency)

	for i := 0; i < cfg.Requests; i++ {
		g.Go(func() error {
			status, msg, err := book(ctx, client, cfg)
			switch {
			case err != nil:
				res.failed.Add(1)
				log.Warn("simulate: request failed: %v", err)
			case status == http.StatusCreated:
				res.created.Add(1)
			case status == http.StatusBadRequest && strings.HasPrefix(msg, "Time slot"):
				res.conflict.Add(1)
			default:
				res.failed.Add(1)
				log.Warn("simulate: unexpected response %d: %s", status, msg)
			}
			// Ошибки считаются, а не прерывают остальные запросы
			return nil
		})
	}
	_ = g.Wait()

	log.Info("simulate: done in %s: created=%d conflict=%d error=%d",
		time.Since(start).Round(time.Millisecond), res.created.Load(), res.conflict.Load(), res.failed.Load())

	if res.created.Load() > 1 {
		log.Error("simulate: slot %s %s %s was booked %d times", cfg.DoctorID, cfg.Date, cfg.Time, res.created.Load())
		os.Exit(1)
	}
}

// book записывает нового случайного пациента на слот
func book(ctx context.Context, client *http.Client, cfg simConfig) (int, string, error) {
	patient := domain.Caller{
		ID:    uuid.NewString(),
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Role:  domain.RolePatient,
	}

	token, err := middleware.SignToken(patient, []byte(cfg.Secret), time.Hour)
	if err != nil {
		return 0, "", fmt.Errorf("sign token: %w", err)
	}

	body, err := json.Marshal(bookingBody{
		DoctorID:    cfg.DoctorID,
		Date:        cfg.Date,
		Time:        cfg.Time,
		PatientName: patient.Name,
		Email:       patient.Email,
		Phone:       "+1650253" + gofakeit.Numerify("####"),
		Reason:      "Consultation: " + gofakeit.Noun(),
	})
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/api/appointments", bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return resp.StatusCode, "", fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, out.Message, nil
}
