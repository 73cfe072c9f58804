package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hackathon-portal/driver"
	"hackathon-portal/models"
	"hackathon-portal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxProofSize = 5 << 20 // 5MB

type PaymentController struct{}

// Submit accepts a payment proof screenshot for a pending registration and
// auto-approves it: the record flips to completed, the payment sub-record is
// attached and attendance starts unmarked. Receipt mail, receipt PDF and the
// optional S3 mirror run after the commit and cannot fail it.
func (pc *PaymentController) Submit(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxProofSize + 1<<20); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Invalid multipart form"})
			return
		}

		registrationID := r.FormValue("registrationId")
		if registrationID == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Registration ID is required"})
			return
		}
		transactionID := r.FormValue("transactionId")
		if transactionID == "" {
			transactionID = "NOT_PROVIDED"
		}

		file, header, err := r.FormFile("proof")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Payment screenshot is required"})
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Only PNG and JPG images are allowed"})
			return
		}
		if header.Size > maxProofSize {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Screenshot must be 5MB or smaller"})
			return
		}

		fileName := fmt.Sprintf("payment_%d_%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
		destPath := filepath.Join(store.ScreenshotDir(), fileName)
		if err := saveUpload(file, destPath); err != nil {
			logrus.WithError(err).Error("Failed to store payment screenshot")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Kind: models.KindStorage, Message: "Failed to store payment screenshot"})
			return
		}

		var updated models.Registration
		err = store.Update(func(regs []models.Registration) ([]models.Registration, error) {
			idx := findRegistration(regs, registrationID)
			if idx < 0 {
				return nil, errNotFound
			}
			reg := &regs[idx]
			reg.Status = models.StatusCompleted
			reg.PaymentStatus = models.PaymentCompleted
			reg.Payment = &models.Payment{
				TransactionID:  transactionID,
				Amount:         reg.Amount(),
				ScreenshotPath: fileName,
				Timestamp:      models.NowStamp(),
				Status:         "approved",
				Approved:       true,
			}
			if reg.Attendance == nil {
				reg.Attendance = &models.Attendance{Marked: false}
			}
			updated = *reg
			return regs, nil
		})
		if errors.Is(err, errNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Kind: models.KindNotFound, Message: "Registration not found"})
			return
		}
		if err != nil {
			logrus.WithError(err).Error("Failed to save payment")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Kind: models.KindStorage, Message: "Failed to save payment"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"id":     updated.CanonicalID(),
			"team":   updated.TeamName,
			"amount": updated.Payment.Amount,
		}).Info("Payment approved")

		go finishPayment(updated, store.ReceiptDir(), destPath, fileName)

		utils.ResponseJSON(w, models.Response{
			Success: true,
			Message: "Payment proof submitted successfully",
			Data: map[string]interface{}{
				"transactionId": updated.Payment.TransactionID,
				"amount":        updated.Payment.Amount,
				"status":        updated.Status,
			},
		})
	}
}

// finishPayment runs the post-commit side effects. Failures are logged and
// never reach the registration record.
func finishPayment(reg models.Registration, receiptDir, proofPath, proofName string) {
	utils.SendReceiptEmail(reg.TeamLeaderEmail, reg.TeamLeaderName, reg.TeamName, reg.Payment.Amount)

	if path, err := utils.GenerateReceipt(reg, receiptDir); err != nil {
		logrus.WithError(err).Warn("Receipt generation failed")
	} else {
		logrus.WithField("receipt", path).Info("Receipt generated")
	}

	f, err := os.Open(proofPath)
	if err != nil {
		logrus.WithError(err).Warn("Could not reopen screenshot for S3 mirror")
		return
	}
	defer f.Close()
	if url, err := utils.MirrorProofToS3(f, proofName); err != nil {
		logrus.WithError(err).Warn("S3 mirror failed")
	} else if url != "" {
		logrus.WithField("url", url).Info("Screenshot mirrored to S3")
	}
}

func saveUpload(src io.Reader, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
