package templates

import "fmt"

// RenderCode renders the HTML body for a one-time code email.
func RenderCode(code, intro string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f7f6; padding: 24px;">
    <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="color: #2a6f63; margin-top: 0;">MindHaven</h2>
      <p style="color: #333333;">%s</p>
      <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #2a6f63; text-align: center; margin: 24px 0;">%s</p>
      <p style="color: #777777; font-size: 13px;">This code expires in 10 minutes. If you did not request it, you can safely ignore this email.</p>
    </div>
  </body>
</html>`, intro, code)
}
