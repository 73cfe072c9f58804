package main

import (
	"net/http"
	"os"

	"hackathon-portal/controllers"
	"hackathon-portal/driver"
	"hackathon-portal/models"
	"hackathon-portal/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using process environment")
	}
	secret := os.Getenv("SECRET")
	if secret == "" {
		logrus.Fatal("SECRET variable is not set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	store, err := driver.Connect(dataDir)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open registration store")
	}

	registrationController := controllers.RegistrationController{}
	paymentController := controllers.PaymentController{}
	attendanceController := controllers.AttendanceController{}
	adminController := controllers.AdminController{}
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, models.Response{Success: true, Message: "Hackathon portal running", Data: map[string]string{"status": "OK"}})
	}).Methods("GET")

	router.HandleFunc("/api/registration/register", registrationController.Register(store)).Methods("POST")
	router.HandleFunc("/api/registration/check-duplicate", registrationController.CheckDuplicate(store)).Methods("POST")
	router.HandleFunc("/api/registration/{id}", registrationController.GetByID(store)).Methods("GET")

	router.HandleFunc("/api/payment/submit", paymentController.Submit(store)).Methods("POST")

	router.HandleFunc("/api/attendance/verify-qr", utils.AdminAuth(attendanceController.VerifyQR(store))).Methods("POST")
	router.HandleFunc("/api/attendance/mark-attendance", utils.AdminAuth(attendanceController.MarkAttendance(store))).Methods("POST")
	router.HandleFunc("/api/attendance/stats", utils.AdminAuth(attendanceController.Stats(store))).Methods("GET")
	router.HandleFunc("/api/attendance/list", utils.AdminAuth(attendanceController.List(store))).Methods("GET")

	router.HandleFunc("/api/admin/login", adminController.Login()).Methods("POST")
	router.HandleFunc("/api/admin/stats", utils.AdminAuth(adminController.Stats(store))).Methods("GET")
	router.HandleFunc("/api/admin/registrations", utils.AdminAuth(adminController.Registrations(store))).Methods("GET")
	router.HandleFunc("/api/admin/export", utils.AdminAuth(adminController.Export(store))).Methods("GET")
	router.HandleFunc("/api/admin/backup", utils.AdminAuth(adminController.Backup(store))).Methods("POST")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	logrus.Infof("Server started on port %s", port)
	logrus.Fatal(http.ListenAndServe(":"+port, router))
}
