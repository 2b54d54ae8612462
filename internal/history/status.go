package history

import (
	"fmt"

	"github.com/bikepoint/sprocket/schema"
)

// PrintHistoryStatus prints order history status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Orders: %d\n", status.TotalOrders)
	fmt.Printf("Total Bookings: %d\n", status.TotalBookings)
	if status.TotalOrders > 0 {
		fmt.Printf("Last Order: %s\n", status.LastOrderTime.Format("2006-01-02 15:04:05"))
	}
}
