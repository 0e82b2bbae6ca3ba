package emails

import (
	"fmt"
	"time"
)

// Brand theme for transactional mail.
const (
	themePrimary   = "#7C3AED"
	themeTextMain  = "#1F2937"
	themeBgBody    = "#F3F4F6"
)

// EmailLayout wraps content in the shared HTML shell used by all
// transactional mail.
func EmailLayout(contentHTML string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en" xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>WaveMint</title>
  <style>
    body { margin: 0; padding: 0; width: 100%% !important; background-color: %s; -webkit-font-smoothing: antialiased; }
    table { border-collapse: collapse; }
    img { border: 0; outline: none; text-decoration: none; }
    body, td, p, a, li { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; color: %s; }
    .content-body p { margin: 0 0 24px 0; font-size: 16px; line-height: 1.6; color: #374151; }
    .content-body h1 { color: #111827; font-size: 24px; margin-top: 0; margin-bottom: 20px; font-weight: 700; }
    .content-body a { color: %s; font-weight: 600; text-decoration: none; }
    .wavemint-button { display: inline-block; padding: 12px 28px; background-color: %s; color: #FFFFFF !important; border-radius: 8px; font-weight: 600; }
    .sale-table td { padding: 8px 12px; font-size: 14px; border-bottom: 1px solid #E5E7EB; }
  </style>
</head>
<body>
  <table role="presentation" width="100%%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding: 32px 16px;">
        <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background-color: #FFFFFF; border-radius: 12px; overflow: hidden;">
          <tr>
            <td style="padding: 24px 32px; background-color: %s;">
              <span style="color: #FFFFFF; font-size: 20px; font-weight: 700;">WaveMint</span>
            </td>
          </tr>
          <tr>
            <td class="content-body" style="padding: 32px;">
              %s
            </td>
          </tr>
          <tr>
            <td style="padding: 20px 32px; background-color: #F9FAFB; font-size: 12px; color: #9CA3AF;">
              &copy; %d WaveMint. All rights reserved.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, themeBgBody, themeTextMain, themePrimary, themePrimary, themePrimary, contentHTML, year)
}
