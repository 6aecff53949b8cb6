package initializers

import (
	"context"
	"log"

	"github.com/Kariqs/fishing-store-api/utils"
)

var (
	Images   utils.ImageUploader
	Notifier *utils.OrderNotifier
	Feed     *utils.OrderFeed
)

// InitServices wires the optional collaborators around the database.
// A missing S3 configuration only disables image uploads.
func InitServices() {
	Feed = utils.NewOrderFeed()
	Notifier = utils.NewOrderNotifierFromEnv()

	uploader, err := utils.NewS3Uploader(context.Background())
	if err != nil {
		log.Println("Product image uploads disabled:", err)
		return
	}
	Images = uploader
}
