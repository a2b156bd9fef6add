package routes

import (
	"github.com/labstack/echo/v4"
)

type Router struct {
	Users         *DefaultUserRoute
	Appointments  *DefaultAppointmentRoute
	Patients      *DefaultPatientRoute
	Prescriptions *DefaultPrescriptionRoute
	Dashboard     *DefaultDashboardRoute
	Reports       *DefaultReportRoute
}

// Register mounts every endpoint on e. Everything except sign-up, login,
// verification and health goes through auth.
func (r *Router) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/api/health", Health)

	e.POST("/api/users", r.Users.CreateUser)
	e.POST("/api/users/login", r.Users.CreateLogin)
	e.POST("/api/users/verify", r.Users.VerifySignup)

	api := e.Group("/api", auth)

	// Users
	api.GET("/users", r.Users.GetUsers)
	api.GET("/users/:id", r.Users.GetUser)

	// Appointments
	api.GET("/appointments", r.Appointments.GetAppointments)
	api.GET("/appointments/:id", r.Appointments.GetAppointment)
	api.POST("/appointments", r.Appointments.CreateAppointment)
	api.PUT("/appointments/:id", r.Appointments.UpdateAppointment)
	api.PATCH("/appointments/:id/status", r.Appointments.UpdateStatus)
	api.DELETE("/appointments/:id", r.Appointments.DeleteAppointment)

	// Pseudo-entity "Calendar" to check whether a slot is free before booking
	api.GET("/calendar/availability", r.Appointments.GetAvailability)

	// Patients
	api.GET("/patients", r.Patients.GetPatients)
	api.GET("/patients/:id", r.Patients.GetPatient)
	api.POST("/patients", r.Patients.CreatePatient)
	api.PUT("/patients/:id", r.Patients.UpdatePatient)
	api.DELETE("/patients/:id", r.Patients.DeletePatient)

	// Prescriptions
	api.GET("/prescriptions", r.Prescriptions.GetPrescriptions)
	api.GET("/prescriptions/:id", r.Prescriptions.GetPrescription)
	api.POST("/prescriptions", r.Prescriptions.CreatePrescription)
	api.PUT("/prescriptions/:id", r.Prescriptions.UpdatePrescription)
	api.DELETE("/prescriptions/:id", r.Prescriptions.DeletePrescription)

	api.GET("/dashboard", r.Dashboard.GetDashboard)

	// Reports
	api.GET("/reports/appointments.csv", r.Reports.ExportAppointments)
	api.GET("/reports/patients.csv", r.Reports.ExportPatients)
	api.GET("/reports/prescriptions.csv", r.Reports.ExportPrescriptions)
}
