package utils

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"a1taxi/config"
)

var twilioClient = &http.Client{Timeout: 10 * time.Second}

// SendTwilioOTP sends an OTP via Twilio Verify
func SendTwilioOTP(phoneNumber string) error {
	cfg := config.Envs
	if cfg.TwilioSID == "" || cfg.TwilioAuth == "" || cfg.TwilioVerify == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	url := fmt.Sprintf("https://verify.twilio.com/v2/Services/%s/Verifications", cfg.TwilioVerify)
	data := fmt.Sprintf("To=%s&Channel=sms", phoneNumber)

	req, _ := http.NewRequest("POST", url, bytes.NewBufferString(data))
	req.SetBasicAuth(cfg.TwilioSID, cfg.TwilioAuth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := twilioClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("twilio error: %s", resp.Status)
	}
	return nil
}

// VerifyTwilioOTP verifies an OTP via Twilio Verify
func VerifyTwilioOTP(phoneNumber, code string) error {
	cfg := config.Envs
	if cfg.TwilioSID == "" || cfg.TwilioAuth == "" || cfg.TwilioVerify == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	url := fmt.Sprintf("https://verify.twilio.com/v2/Services/%s/VerificationChecks", cfg.TwilioVerify)
	data := fmt.Sprintf("To=%s&Code=%s", phoneNumber, code)

	req, _ := http.NewRequest("POST", url, bytes.NewBufferString(data))
	req.SetBasicAuth(cfg.TwilioSID, cfg.TwilioAuth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := twilioClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("twilio verification failed: %s", resp.Status)
	}
	return nil
}
