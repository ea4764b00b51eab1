package socket

import (
	"context"
	"encoding/json"
	"net/http"

	"a1taxi/stores"
	"a1taxi/utils"

	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// InitSocketIO creates and returns a Socket.IO server
func InitSocketIO() *socketio.Server {
	opts := &socketio.ServerOptions{}
	opts.SetCors(&types.Cors{
		Origin: "*",
	})

	io := socketio.NewServer(nil, opts)

	io.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		utils.Logger.Info("Socket connected", zap.String("socketID", string(socket.Id())))

		// locationUpdate — driver streams GPS positions while online
		socket.On("locationUpdate", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}

			role, _ := data["role"].(string)
			driverID, _ := data["driverId"].(string)

			if role == "driver" && driverID != "" {
				lat, _ := data["latitude"].(float64)
				lon, _ := data["longitude"].(float64)

				if err := stores.UpdateDriverLocation(driverID, lat, lon, string(socket.Id())); err != nil {
					utils.Logger.Error("Error updating driver location", zap.Error(err))
				}

				// Join the driver to their own room for targeted dispatch
				socket.Join(socketio.Room("driver:" + driverID))

				// During an active ride, relay the position to the customer
				customerID, _ := data["customerId"].(string)
				if customerID != "" {
					io.To(socketio.Room("user:"+customerID)).Emit("driverLocation", data)
				}
			}
		})

		// joinUserRoom — customer joins a room to receive ride updates
		socket.On("joinUserRoom", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}
			userID, _ := data["userId"].(string)
			if userID != "" {
				socket.Join(socketio.Room("user:" + userID))
			}
		})

		// joinDriverRoom — driver joins their dispatch room on app start,
		// before the first location fix arrives
		socket.On("joinDriverRoom", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}
			driverID, _ := data["driverId"].(string)
			if driverID != "" {
				socket.Join(socketio.Room("driver:" + driverID))
			}
		})

		// rideStatus — driver pushes a ride status change to the customer
		socket.On("rideStatus", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}
			customerID, _ := data["customerId"].(string)
			if customerID != "" {
				io.To(socketio.Room("user:"+customerID)).Emit("rideUpdate", data)
			}
		})

		// nearbyDrivers — customer asks for cars around them for the map view
		socket.On("nearbyDrivers", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}

			lat, _ := data["latitude"].(float64)
			lon, _ := data["longitude"].(float64)

			drivers, err := stores.GetNearbyDrivers(lat, lon, 5.0)
			if err != nil {
				utils.Logger.Error("Error finding nearby drivers", zap.Error(err))
				return
			}

			var nearby []map[string]any
			for _, d := range drivers {
				nearby = append(nearby, map[string]any{
					"id":        d.DriverID,
					"latitude":  d.Latitude,
					"longitude": d.Longitude,
				})
			}
			socket.Emit("nearbyDrivers", map[string]any{"drivers": nearby})
		})

		socket.On("disconnect", func(args ...any) {
			utils.Logger.Info("Socket disconnected", zap.String("socketID", string(socket.Id())))
		})
	})

	// Bridge Redis ride-request events onto driver sockets. The event
	// carries the vetted driver list, so we emit only to those rooms.
	go func() {
		ctx := context.Background()
		pubsub := stores.SubscribeToRideRequests(ctx)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for msg := range ch {
			var event stores.RideRequestEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				utils.Logger.Error("Error unmarshalling ride request", zap.Error(err))
				continue
			}

			utils.Logger.Info("Broadcasting ride request",
				zap.String("rideId", event.RideID),
				zap.Int("driverCount", len(event.DriverIDs)))

			for _, driverID := range event.DriverIDs {
				io.To(socketio.Room("driver:"+driverID)).Emit("newRide", event)
			}
		}
	}()

	return io
}

// GetHandler returns the HTTP handler for Socket.IO
func GetHandler(io *socketio.Server) http.Handler {
	return io.ServeHandler(nil)
}
