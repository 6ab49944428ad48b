package services

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionService screens uploaded photos so listings actually show food.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// LooksLikeFood labels the image and reports whether anything edible shows
// up, plus the labels for debugging.
func (r *RekognitionService) LooksLikeFood(imageData []byte) (bool, []string, error) {
	out, err := r.client.DetectLabels(context.TODO(), &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageData},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(70),
	})
	if err != nil {
		return false, nil, err
	}

	var labels []string
	found := false
	for _, l := range out.Labels {
		name := aws.ToString(l.Name)
		labels = append(labels, name)
		switch strings.ToLower(name) {
		case "food", "meal", "dish", "beverage", "dessert", "produce":
			found = true
		}
	}
	return found, labels, nil
}
