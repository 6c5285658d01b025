package wire

import "eventbook/internal/app/model"

// ToRegistration transforms a raw registration record into the canonical
// entity. The denormalized userName/userEmail fields exist only on the wire.
func ToRegistration(w Registration) model.Registration {
	status := model.RegistrationStatus(w.Status)
	if status != model.StatusConfirmed && status != model.StatusCancelled {
		status = model.StatusConfirmed
	}

	return model.Registration{
		ID:           w.ID,
		UserID:       w.UserID,
		EventID:      w.EventID,
		RegisteredAt: w.RegisteredAt,
		Status:       status,
	}
}

// ToRegistrations transforms a slice of raw registration records.
func ToRegistrations(ws []Registration) []model.Registration {
	regs := make([]model.Registration, 0, len(ws))
	for _, w := range ws {
		regs = append(regs, ToRegistration(w))
	}
	return regs
}

// FromRegistration transforms a canonical registration into its wire record,
// attaching the registrant's denormalized name and email.
func FromRegistration(r model.Registration, userName, userEmail string) Registration {
	return Registration{
		ID:           r.ID,
		UserID:       r.UserID,
		EventID:      r.EventID,
		UserName:     userName,
		UserEmail:    userEmail,
		RegisteredAt: r.RegisteredAt,
		Status:       string(r.Status),
	}
}
