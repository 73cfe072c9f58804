package controllers

import (
	"errors"

	"hackathon-portal/models"
	"hackathon-portal/utils"
)

// Sentinels returned from store mutation closures so handlers can map them
// onto the HTTP error taxonomy.
var (
	errNotFound      = errors.New("registration not found")
	errConflict      = errors.New("duplicate completed registration")
	errAlreadyMarked = errors.New("attendance already marked")
)

// findRegistration locates a record by canonical id, tolerating the mixed
// string/numeric id forms older documents carry.
func findRegistration(regs []models.Registration, id string) int {
	for i := range regs {
		if utils.SameID(regs[i].CanonicalID(), id) || utils.SameID(regs[i].ID, id) {
			return i
		}
	}
	return -1
}
