package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/get_appointment"
	getDoctorSlotsHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/get_doctor_slots"
	healthHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/health"
	listAppointmentsHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/list_appointments"
	updateAppointmentHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/update_appointment"
	updateDoctorSlotsHandler "github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers/update_doctor_slots"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/config"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/appointment"
	doctorSlotRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/doctorslot"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-HospitalBookingService/internal/integrations/directory"
	"github.com/m04kA/SMC-HospitalBookingService/internal/integrations/mailer"
	"github.com/m04kA/SMC-HospitalBookingService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/slots"
	bookAppointmentUC "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/book_appointment"
	deleteAppointmentUC "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/delete_appointment"
	updateAppointmentUC "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/metrics"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/txmanager"
)

// appointmentStore хранилище записей: Postgres или память
type appointmentStore interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Find(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	FindActiveAt(ctx context.Context, cell domain.SlotCell) (*domain.Appointment, error)
	ActiveTimes(ctx context.Context, day domain.DoctorDay) ([]string, error)
	Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (domain.AppointmentStatus, *domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}

type doctorSlotStore interface {
	Get(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error)
	Upsert(ctx context.Context, slot *domain.DoctorSlot) (*domain.DoctorSlot, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage выбранное хранилище и его проверка доступности
type storage struct {
	appointments appointmentStore
	doctorSlots  doctorSlotStore
	tx           txManager
	ping         healthHandler.CheckFunc
	close        func() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-HospitalBookingService...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище записей и расписаний
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	checks := map[string]healthHandler.CheckFunc{"database": store.ping}

	// Блокировка расписания дня врача
	var locker lock.Locker
	switch cfg.Lock.Backend {
	case config.LockRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		locker = lock.NewRedisLocker(rdb, cfg.Lock.TTLDuration(), cfg.Lock.WaitDuration())
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("Redis lock backend at %s (ttl=%s, wait=%s)", cfg.Redis.Addr, cfg.Lock.TTLDuration(), cfg.Lock.WaitDuration())
	default:
		locker = lock.NewLocalLocker(cfg.Lock.WaitDuration())
		log.Info("In-process lock backend (wait=%s)", cfg.Lock.WaitDuration())
	}

	// Инициализируем интеграционных клиентов
	directoryClient := directory.NewClient(cfg.Directory.URL, cfg.Directory.TimeoutDuration(), log)
	log.Info("Directory client initialized (url=%s timeout=%s)", cfg.Directory.URL, cfg.Directory.TimeoutDuration())

	var channels []notifications.Channel
	if cfg.Notifier.Enabled {
		channels = append(channels, notifier.NewClient(cfg.Notifier.URL, time.Duration(cfg.Notifier.Timeout)*time.Second))
		log.Info("Notification service channel enabled (url=%s)", cfg.Notifier.URL)
	}
	if cfg.Mail.Enabled {
		channels = append(channels, mailer.New(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			SSL:      cfg.Mail.SSL,
			Timeout:  time.Duration(cfg.Mail.Timeout) * time.Second,
		}))
		log.Info("E-mail channel enabled (smtp=%s:%d)", cfg.Mail.Host, cfg.Mail.Port)
	}
	dispatcher := notifications.NewDispatcher(cfg.Booking.NotifyTimeoutDuration(), metricsCollector, log, channels...)

	// Инициализируем сервисы
	slotSvc := slots.NewService(store.doctorSlots, store.appointments, locker, cfg.Booking.DefaultSlots, log)
	appointmentSvc := appointmentsService.NewService(store.appointments, log)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		store.appointments,
		store.doctorSlots,
		slotSvc,
		directoryClient,
		locker,
		store.tx,
		dispatcher,
		metricsCollector,
		cfg.Booking.PhoneRegion,
		log,
	)

	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		store.appointments,
		store.doctorSlots,
		slotSvc,
		locker,
		store.tx,
		dispatcher,
		metricsCollector,
		cfg.Booking.PhoneRegion,
		log,
	)

	deleteAppointmentUseCase := deleteAppointmentUC.NewUseCase(
		store.appointments,
		slotSvc,
		locker,
		store.tx,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(deleteAppointmentUseCase, log)
	getDoctorSlots := getDoctorSlotsHandler.NewHandler(slotSvc, log)
	updateDoctorSlots := updateDoctorSlotsHandler.NewHandler(slotSvc, log)
	health := healthHandler.NewHandler(checks, 2*time.Second, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	r.HandleFunc("/health/live", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth([]byte(cfg.Auth.JWTSecret), log))
	// Все обращения к хранилищу внутри запроса ограничены query_timeout
	api.Use(middleware.Timeout(cfg.Database.QueryTimeoutDuration()))

	// --- Записи на приём ---
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", updateAppointment.Handle).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{id}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// --- Расписание врача ---
	api.HandleFunc("/doctor-slots/{doctorId}/{date}", getDoctorSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctor-slots/{doctorId}/{date}", updateDoctorSlots.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений, запущенных до остановки
	dispatcher.Wait()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openStorage подключает Postgres или создаёт хранилище в памяти
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Warn("Using in-memory storage: data is lost on restart")
		return &storage{
			appointments: store.Appointments(),
			doctorSlots:  store.DoctorSlots(),
			tx:           txmanager.NewNoop(),
			ping:         store.Ping,
			close:        func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil-метриками обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Database.DBName, stopCh)

	return &storage{
		appointments: appointmentRepo.NewRepository(wrappedDB),
		doctorSlots:  doctorSlotRepo.NewRepository(wrappedDB),
		tx:           txmanager.NewTransactionManager(wrappedDB),
		ping:         wrappedDB.PingContext,
		close:        db.Close,
	}, nil
}
