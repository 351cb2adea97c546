package notify

import "fmt"

func SubmissionConfirmationEmail(to, fullName string) Email {
	return Email{
		To:      to,
		Subject: "Onboarding Submission Received",
		HTML: fmt.Sprintf(`
			<h1>Submission Received</h1>
			<p>Dear %s,</p>
			<p>Your onboarding submission has been received and is pending review.</p>
			<p>You will be notified as your submission progresses.</p>
		`, fullName),
	}
}

func RejectionEmail(to, fullName, submissionID, reason string) Email {
	return Email{
		To:      to,
		Subject: "Onboarding Submission Rejected",
		HTML: fmt.Sprintf(`
			<h1>Submission Rejected</h1>
			<p>Dear %s,</p>
			<p>Your onboarding submission (ID: %s) has been rejected.</p>
			<p>Reason: %s</p>
			<p>You may correct the issue and resubmit.</p>
		`, fullName, submissionID, reason),
	}
}

func DocumentEndorsedEmail(to, fullName, nssNumber, submissionID string) Email {
	return Email{
		To:      to,
		Subject: "Document Endorsed",
		HTML: fmt.Sprintf(`
			<h1>Document Endorsed</h1>
			<p>Dear %s,</p>
			<p>Your document (Submission ID: %s, NSS: %s) has been endorsed successfully.</p>
		`, fullName, submissionID, nssNumber),
	}
}

func VerificationFormEmail(to, staffName, personnelName, nssNumber, submissionID string) Email {
	return Email{
		To:      to,
		Subject: "New Verification Form Submitted",
		HTML: fmt.Sprintf(`
			<h1>Verification Form Submitted</h1>
			<p>Dear %s,</p>
			<p>A verification form for submission (ID: %s, NSS: %s) has been submitted by %s.</p>
		`, staffName, submissionID, nssNumber, personnelName),
	}
}
