package audit

const (
	ActionAppointmentCreate  = "APPOINTMENT_CREATE"
	ActionAppointmentUpdate  = "APPOINTMENT_UPDATE"
	ActionAppointmentStatus  = "APPOINTMENT_STATUS"
	ActionAppointmentPayment = "APPOINTMENT_PAYMENT"
	ActionAppointmentDelete  = "APPOINTMENT_DELETE"

	EntityAppointment = "appointment"
)
