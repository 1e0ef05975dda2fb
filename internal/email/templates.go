package email

import (
	"fmt"

	"rewear/internal/models"
)

func (s *Service) generateSwapRequestHTML(owner *models.User, requesterName, itemTitle, verb string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Request on ReWear</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #2d5e3e;
            margin-bottom: 10px;
            text-align: center;
        }
        .content {
            font-size: 16px;
            margin-bottom: 30px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e9ecef;
            font-size: 14px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">ReWear</div>

        <div class="content">
            <p>Hi %s,</p>

            <p><strong>%s</strong> would like to %s your listing <strong>%q</strong>.</p>

            <p>Log in to ReWear to accept or decline the request. The item stays
            listed as available until you respond.</p>
        </div>

        <div class="footer">
            <p>The ReWear Team</p>
            <p style="margin-top: 20px; font-size: 12px;">
                This email was sent to %s because you have an active listing on ReWear.
            </p>
        </div>
    </div>
</body>
</html>`, owner.Name, requesterName, verb, itemTitle, owner.Email)
}

func (s *Service) generateSwapRequestText(owner *models.User, requesterName, itemTitle, verb string) string {
	return fmt.Sprintf(`Hi %s,

%s would like to %s your listing %q.

Log in to ReWear to accept or decline the request. The item stays listed
as available until you respond.

The ReWear Team

---
This email was sent to %s because you have an active listing on ReWear.`,
		owner.Name, requesterName, verb, itemTitle, owner.Email)
}

func (s *Service) generateModerationHTML(owner *models.User, item *models.Item) string {
	decision := "was approved and is now visible to other members. You earned 1 point for listing it!"
	if item.Status != models.ItemAvailable {
		decision = "was not approved by our moderators. You can edit and relist it at any time."
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Listing Update from ReWear</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #2d5e3e;
            margin-bottom: 10px;
            text-align: center;
        }
        .content {
            font-size: 16px;
            margin-bottom: 30px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e9ecef;
            font-size: 14px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">ReWear</div>

        <div class="content">
            <p>Hi %s,</p>

            <p>Your listing <strong>%q</strong> %s</p>
        </div>

        <div class="footer">
            <p>The ReWear Team</p>
            <p style="margin-top: 20px; font-size: 12px;">
                This email was sent to %s about a listing you created on ReWear.
            </p>
        </div>
    </div>
</body>
</html>`, owner.Name, item.Title, decision, owner.Email)
}

func (s *Service) generateModerationText(owner *models.User, item *models.Item) string {
	decision := "was approved and is now visible to other members. You earned 1 point for listing it!"
	if item.Status != models.ItemAvailable {
		decision = "was not approved by our moderators. You can edit and relist it at any time."
	}

	return fmt.Sprintf(`Hi %s,

Your listing %q %s

The ReWear Team

---
This email was sent to %s about a listing you created on ReWear.`,
		owner.Name, item.Title, decision, owner.Email)
}
