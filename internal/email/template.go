package email

import "fmt"

// OTPSubject is the subject line for verification mail.
const OTPSubject = "Your OTP for Email Verification"

// OTPBody renders the verification email. Layout mirrors the storefront's
// transactional mail: code box, validity notice, never-share warning.
func OTPBody(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background-color: #f8f9fa; padding: 20px; border-radius: 8px 8px 0 0; text-align: center; }
      .content { padding: 20px; background-color: #fff; border: 1px solid #ddd; }
      .otp-box {
        background-color: #f0f0f0;
        padding: 15px;
        border-radius: 5px;
        text-align: center;
        margin: 20px 0;
        font-size: 32px;
        font-weight: bold;
        letter-spacing: 5px;
        color: #333;
      }
      .footer { background-color: #f8f9fa; padding: 15px; text-align: center; font-size: 12px; color: #666; }
      .warning { color: #dc3545; font-size: 12px; margin-top: 10px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Verify Your Email</h1>
      </div>
      <div class="content">
        <p>Hello,</p>
        <p>Your one-time password (OTP) for email verification is:</p>
        <div class="otp-box">%s</div>
        <p>This OTP is valid for <strong>5 minutes</strong>.</p>
        <p>If you did not request this OTP, please ignore this email.</p>
        <div class="warning">Never share this OTP with anyone. We will never ask for it.</div>
      </div>
      <div class="footer">
        <p>&copy; 2026 Grommet. All rights reserved.</p>
      </div>
    </div>
  </body>
</html>`, code)
}
