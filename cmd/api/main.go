package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/promoterhub/workforce-backend-go/internal/config"
	appHTTP "github.com/promoterhub/workforce-backend-go/internal/handler/http"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/cron"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/database"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/jwt"
	"github.com/promoterhub/workforce-backend-go/internal/pkg/storage"
	"github.com/promoterhub/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/promoterhub/workforce-backend-go/internal/service/attendance"
	"github.com/promoterhub/workforce-backend-go/internal/service/file"
	notificationService "github.com/promoterhub/workforce-backend-go/internal/service/notification"
	reportService "github.com/promoterhub/workforce-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		workScheduleRepo,
		fileService,
		attendanceService.Defaults{
			StandardShiftHours: cfg.Shift.StandardShiftHours,
			GraceMinutes:       cfg.Shift.GraceMinutes,
		},
		nil,
	)
	reportSvc := reportService.NewReportService(attendanceRepo)
	dispatcher := notificationService.NewLogDispatcher(slog.Default())

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		attendanceSvc,
		attendanceRepo,
		employeeRepo,
		workScheduleRepo,
		dispatcher,
		nil,
	)
	attendanceJobs.RegisterJobs(scheduler, cfg.Shift.AbsentSweepEvery)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
