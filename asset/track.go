package asset

// DemoTrackName is the scene name used for result grouping
const DemoTrackName = "yard"

// DemoTrack is the default scene: one wood kart on a flat loop with three
// checkpoints, a turbo pad, an item box and a pond that sends the car back
// The finish line index is one past the last checkpoint
const DemoTrack = `
name = "yard"

# === Kart ===

[[entity]]
uuid = "kart-player"
name = "Player"
position = [0.0, 1.0, -6.0]

[entity.car]
kart_type = "wood"
lose_height = -30.0

[entity.car.wheels]
front_left = "wheel-fl"
front_right = "wheel-fr"
back_left = "wheel-bl"
back_right = "wheel-br"

[[entity]]
uuid = "wheel-fl"
name = "WheelFrontLeft"

[[entity]]
uuid = "wheel-fr"
name = "WheelFrontRight"

[[entity]]
uuid = "wheel-bl"
name = "WheelBackLeft"

[[entity]]
uuid = "wheel-br"
name = "WheelBackRight"

# === Race line ===

[[entity]]
uuid = "finish"
name = "FinishLine"
position = [0.0, 1.0, 0.0]

[entity.trigger]
flags = ["finish"]
checkpoint = 4
size = [16.0, 6.0, 1.0]

[[entity]]
uuid = "cp-1"
name = "Checkpoint1"
position = [0.0, 1.0, 60.0]

[entity.trigger]
flags = ["checkpoint"]
checkpoint = 1
size = [16.0, 6.0, 1.0]

[[entity]]
uuid = "cp-2"
name = "Checkpoint2"
position = [60.0, 1.0, 60.0]
rotation = [0.0, 90.0, 0.0]

[entity.trigger]
flags = ["checkpoint"]
checkpoint = 2
size = [16.0, 6.0, 1.0]

[[entity]]
uuid = "cp-3"
name = "Checkpoint3"
position = [60.0, 1.0, 0.0]
rotation = [0.0, 180.0, 0.0]

[entity.trigger]
flags = ["checkpoint"]
checkpoint = 3
size = [16.0, 6.0, 1.0]

# === Pickups ===

[[entity]]
uuid = "pad-1"
name = "TurboPad"
position = [0.0, 0.5, 30.0]

[entity.trigger]
flags = ["turbo_pad", "transparent"]
size = [4.0, 1.0, 4.0]

[[entity]]
uuid = "item-1"
name = "ItemBox"
position = [30.0, 1.0, 60.0]

[entity.trigger]
flags = ["item", "transparent"]
size = [2.0, 2.0, 2.0]

[[entity]]
uuid = "pond"
name = "Pond"
position = [30.0, 0.5, 30.0]

[entity.trigger]
flags = ["out_of_bounds"]
size = [30.0, 1.0, 30.0]

# === Props ===

[[entity]]
name = "WallNorth"
position = [30.0, 1.0, 75.0]

[entity.collider]
shape = "box"
size = [110.0, 2.0, 1.0]

[[entity]]
name = "WallSouth"
position = [30.0, 1.0, -15.0]

[entity.collider]
shape = "box"
size = [110.0, 2.0, 1.0]

[[entity]]
name = "Barrel"
position = [-5.0, 1.0, 45.0]

[entity.collider]
shape = "cylinder"
size = [0.6, 1.2, 0.0]
mass = 0.0

[[entity]]
name = "Ball"
position = [55.0, 2.0, 30.0]

[entity.collider]
shape = "sphere"
size = [0.8, 0.0, 0.0]
mass = 20.0
`
