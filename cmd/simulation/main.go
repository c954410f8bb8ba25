package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const baseURL = "http://localhost:3000/api/planner/v1"

// Simplified DTOs for the script
type createSessionResponse struct {
	Data struct {
		Session struct {
			SessionId string `json:"session_id"`
		} `json:"session"`
		Messages []messageResponse `json:"messages"`
	} `json:"data"`
}

type messageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Data struct {
		Messages []messageResponse `json:"messages"`
		Phase    string            `json:"phase"`
		Score    int               `json:"score"`
		Progress int               `json:"progress_percent"`
	} `json:"data"`
}

func main() {
	accessToken := os.Getenv("SIMULATION_ACCESS_TOKEN")
	if accessToken == "" {
		log.Fatal("SIMULATION_ACCESS_TOKEN is not set")
	}

	fmt.Println("=== Planning Agent Simulation Client ===")

	sessionID, greeting, err := createSession(accessToken)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	fmt.Printf("Session Created: %s\n", sessionID)
	for _, m := range greeting {
		fmt.Printf("AI: %s\n", m.Content)
	}

	// One scripted interview: onboarding choice, then product answers.
	answers := []string{
		"2",
		"A mobile app that helps freelancers track invoices and get paid faster",
		"Freelance designers and developers who juggle multiple clients",
		"They forget to follow up on unpaid invoices and lose income",
		"Automatic payment reminders sent on a schedule the user controls",
		"Subscription, around $9 per month",
	}

	for _, text := range answers {
		fmt.Printf("\nUSER: %s\n", text)

		start := time.Now()
		reply, phase, progress, err := sendMessage(accessToken, sessionID, text)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		for _, m := range reply {
			fmt.Printf("AI (%v) [%s %d%%]: %s\n", elapsed, phase, progress, m.Content)
		}

		// Small delay to allow async logs to flush on server side (optional)
		time.Sleep(1 * time.Second)
	}
}

func createSession(accessToken string) (string, []messageResponse, error) {
	req, _ := http.NewRequest("POST", baseURL+"/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", nil, err
	}
	return res.Data.Session.SessionId, res.Data.Messages, nil
}

func sendMessage(accessToken, sessionID, text string) ([]messageResponse, string, int, error) {
	jsonBytes, _ := json.Marshal(sendMessageRequest{Message: text})

	req, _ := http.NewRequest("POST", baseURL+"/sessions/"+sessionID+"/messages", bytes.NewBuffer(jsonBytes))
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", 0, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, "", 0, err
	}
	return res.Data.Messages, res.Data.Phase, res.Data.Progress, nil
}
