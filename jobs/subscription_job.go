package jobs

import (
	"log"
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/database"
	"github.com/KarimShetewy/Ikhtaberni-Platform/services"
)

// ExpireOverdueSubscriptions is the billing-side sweep: any subscription
// whose paid period has lapsed is flipped to expired. Access checks only
// ever read the status column, so this job is the single writer that
// retires stale entitlements.
func ExpireOverdueSubscriptions() {
	log.Println("Running job: ExpireOverdueSubscriptions...")

	subs := services.NewSubscriptionService(database.DB)
	expired, err := subs.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("Error expiring subscriptions: %v", err)
		return
	}

	if expired == 0 {
		log.Println("No overdue subscriptions found.")
		return
	}
	log.Printf("Marked %d subscription(s) as expired.", expired)
}
