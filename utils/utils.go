package utils

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"os"
	"strings"
	"time"

	"hackathon-portal/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		logrus.WithError(err).Error("Failed to encode error response")
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	ResponseJSONStatus(w, http.StatusOK, data)
}

func ResponseJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}

// CheckAdminCredentials compares a presented pair against the
// ADMIN_USERNAME / ADMIN_PASSWORD environment configuration. The configured
// password may be a bcrypt hash; anything else is compared in constant time.
func CheckAdminCredentials(username, password string) bool {
	wantUser := os.Getenv("ADMIN_USERNAME")
	wantPass := os.Getenv("ADMIN_PASSWORD")
	if wantUser == "" || wantPass == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) != 1 {
		return false
	}
	if strings.HasPrefix(wantPass, "$2a$") || strings.HasPrefix(wantPass, "$2b$") || strings.HasPrefix(wantPass, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(wantPass), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
}

// GenerateAdminToken issues a short-lived token so the dashboard does not
// have to replay the raw password on every request.
func GenerateAdminToken(username string) (string, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		return "", errors.New("SECRET environment variable is not set")
	}
	claims := jwt.MapClaims{
		"iss":      "hackathon-portal",
		"username": username,
		"role":     "admin",
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func verifyAdminToken(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// AdminAuth gates a handler behind the admin credentials. The check is
// stateless per request: either the username/password header pair or a
// bearer token from the login endpoint.
func AdminAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if CheckAdminCredentials(r.Header.Get("username"), r.Header.Get("password")) || verifyAdminToken(r) {
			next(w, r)
			return
		}
		RespondWithError(w, http.StatusUnauthorized, models.Error{Kind: models.KindUnauthorized, Message: "Unauthorized"})
	}
}

// SendReceiptEmail mails a payment confirmation to the team leader. Failures
// are logged only; registration state has already been committed.
func SendReceiptEmail(to, teamLeaderName, teamName string, amount int) {
	from := os.Getenv("EMAIL_USER")
	password := os.Getenv("EMAIL_PASS")
	if from == "" || password == "" {
		logrus.Debug("Email not configured, skipping receipt mail")
		return
	}
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	auth := smtp.PlainAuth("", from, password, smtpHost)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment of Rs.%d for team %q has been received and your hackathon registration is confirmed.\n\nShow your registration QR code at the check-in desk.\n",
		teamLeaderName, amount, teamName)
	msg := []byte("To: " + to + "\r\n" +
		"Subject: Hackathon Registration Confirmed\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, msg); err != nil {
		logrus.WithError(err).WithField("to", to).Error("Error sending receipt email")
	}
}

// MirrorProofToS3 copies a stored payment screenshot to the configured S3
// bucket. Returns the object URL, or "" when S3 is not configured.
func MirrorProofToS3(file io.Reader, fileName string) (string, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	bucketName := os.Getenv("PAYMENT_PROOF_BUCKET")
	if accessKey == "" || secretKey == "" || region == "" || bucketName == "" {
		return "", nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create AWS session: %v", err)
	}
	svc := s3.New(sess)

	buf, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file buffer: %v", err)
	}
	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileName),
		Body:   bytes.NewReader(buf),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, region, fileName)
	return url, nil
}
